package dto

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FcmToken  string `json:"fcm_token"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FcmToken string `json:"fcm_token"`
}

// OAuthLoginRequest carries a provider access token obtained by the client
// (Google or Facebook).
type OAuthLoginRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
	FcmToken    string `json:"fcm_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type LogoutRequest struct {
	FcmToken string `json:"fcm_token"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiredTime  int64  `json:"expired_time"`
}
