package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/vietlabs/base-backend/internal/config"
	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"github.com/vietlabs/base-backend/internal/repository"
	"github.com/vietlabs/base-backend/pkg/apperror"
	"github.com/vietlabs/base-backend/pkg/i18n"
	"github.com/vietlabs/base-backend/pkg/mail"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetAudience = "password-reset"

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest, lang string) (*dto.LoginResponse, error)
	Login(ctx context.Context, req dto.LoginRequest, lang string) (*dto.LoginResponse, error)
	LoginGoogle(ctx context.Context, req dto.OAuthLoginRequest, lang string) (*dto.LoginResponse, error)
	LoginFacebook(ctx context.Context, req dto.OAuthLoginRequest, lang string) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req dto.RefreshTokenRequest, lang string) (*dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest, lang string) error
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest, lang string) error
	Logout(ctx context.Context, user *model.User, req dto.LogoutRequest) error
}

type authService struct {
	cfg           *config.Config
	userRepo      repository.UserRepository
	roleRepo      repository.RoleRepository
	notifications NotificationService
	verifier      OAuthVerifier
	mailer        mail.Sender
	redis         *redis.Client
	i18n          *i18n.Translator
}

func NewAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	notifications NotificationService,
	verifier OAuthVerifier,
	mailer mail.Sender,
	redisClient *redis.Client,
	translator *i18n.Translator,
) AuthService {
	return &authService{
		cfg:           cfg,
		userRepo:      userRepo,
		roleRepo:      roleRepo,
		notifications: notifications,
		verifier:      verifier,
		mailer:        mailer,
		redis:         redisClient,
		i18n:          translator,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest, lang string) (*dto.LoginResponse, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperror.New(apperror.ErrForbidden, s.i18n.T("user.email.existed", lang, nil))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}

	if err := s.createWithDefaultRole(ctx, user); err != nil {
		return nil, err
	}

	return s.startSession(ctx, user, req.FcmToken)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest, lang string) (*dto.LoginResponse, error) {
	if err := s.throttle(ctx, req.Email, lang); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, s.i18n.T("user.not_found", lang, nil))
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.armThrottle(ctx, req.Email)
		return nil, apperror.New(apperror.ErrUnauthorized, s.i18n.T("auth.password.wrong", lang, nil))
	}

	if !user.IsActive {
		return nil, apperror.New(apperror.ErrForbidden, s.i18n.T("auth.user_inactive", lang, nil))
	}

	return s.startSession(ctx, user, req.FcmToken)
}

func (s *authService) LoginGoogle(ctx context.Context, req dto.OAuthLoginRequest, lang string) (*dto.LoginResponse, error) {
	profile, err := s.verifier.VerifyGoogle(ctx, req.AccessToken)
	if err != nil || profile.Email == "" {
		return nil, apperror.New(apperror.ErrUnauthorized, s.i18n.T("auth.not_found_user_google", lang, nil))
	}

	return s.oauthSession(ctx, profile, req.FcmToken, lang, func(user *model.User) {
		user.GoogleID = profile.ProviderID
	}, func(user *model.User) bool {
		return user.GoogleID == profile.ProviderID
	})
}

func (s *authService) LoginFacebook(ctx context.Context, req dto.OAuthLoginRequest, lang string) (*dto.LoginResponse, error) {
	profile, err := s.verifier.VerifyFacebook(ctx, req.AccessToken)
	if err != nil || profile.Email == "" {
		return nil, apperror.New(apperror.ErrUnauthorized, s.i18n.T("auth.not_found_user_facebook", lang, nil))
	}

	return s.oauthSession(ctx, profile, req.FcmToken, lang, func(user *model.User) {
		user.FacebookID = profile.ProviderID
	}, func(user *model.User) bool {
		return user.FacebookID == profile.ProviderID
	})
}

func (s *authService) oauthSession(
	ctx context.Context,
	profile *OAuthProfile,
	fcmToken, lang string,
	link func(*model.User),
	linked func(*model.User) bool,
) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		if !user.IsActive {
			return nil, apperror.New(apperror.ErrForbidden, s.i18n.T("auth.user_inactive", lang, nil))
		}
		if !linked(user) {
			link(user)
			if err := s.userRepo.Save(ctx, user); err != nil {
				return nil, err
			}
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.User{
			Email:     profile.Email,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			IsActive:  true,
		}
		link(user)
		if err := s.createWithDefaultRole(ctx, user); err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	return s.startSession(ctx, user, fcmToken)
}

func (s *authService) Refresh(ctx context.Context, req dto.RefreshTokenRequest, lang string) (*dto.LoginResponse, error) {
	userID, err := s.parseToken(req.RefreshToken, s.cfg.JWTRefreshSecret, "")
	if err != nil {
		return nil, apperror.New(apperror.ErrUnauthorized, s.i18n.T("auth.refresh_token.invalid", lang, nil))
	}

	// The stored token must match: refreshing rotates it, so a replayed old
	// token is rejected here.
	user, err := s.userRepo.FindByRefreshToken(ctx, userID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrUnauthorized, s.i18n.T("auth.refresh_token.invalid", lang, nil))
		}
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest, lang string) error {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Don't reveal whether the address is registered.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := s.signToken(user.ID, s.cfg.JWTSecret, s.cfg.ResetTokenTTL, resetAudience)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Use this token to reset your password: %s\nIt expires in %s.", token, s.cfg.ResetTokenTTL)
	if err := s.mailer.Send(user.Email, "Password reset", body); err != nil {
		log.Printf("auth: sending reset mail to %s: %v", user.Email, err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest, lang string) error {
	userID, err := s.parseToken(req.Token, s.cfg.JWTSecret, resetAudience)
	if err != nil {
		return apperror.New(apperror.ErrUnauthorized, s.i18n.T("auth.refresh_token.invalid", lang, nil))
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(apperror.ErrUnauthorized, s.i18n.T("auth.refresh_token.invalid", lang, nil))
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// Resetting invalidates any outstanding refresh token.
	return s.userRepo.UpdateFields(ctx, user.ID, map[string]any{
		"password":      string(hashed),
		"refresh_token": "",
	})
}

func (s *authService) Logout(ctx context.Context, user *model.User, req dto.LogoutRequest) error {
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]any{"refresh_token": ""}); err != nil {
		return err
	}
	return s.notifications.UnsubscribeDevice(ctx, user, req.FcmToken)
}

func (s *authService) createWithDefaultRole(ctx context.Context, user *model.User) error {
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	role, err := s.roleRepo.FindByName(ctx, model.RoleUser)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.userRepo.SaveWithRoles(ctx, user, []model.Role{*role})
}

func (s *authService) startSession(ctx context.Context, user *model.User, fcmToken string) (*dto.LoginResponse, error) {
	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.notifications.SubscribeDevice(ctx, user, fcmToken); err != nil {
		log.Printf("auth: device subscribe for user %d: %v", user.ID, err)
	}

	return resp, nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*dto.LoginResponse, error) {
	expiry := time.Now().Add(s.cfg.AccessTokenTTL)

	access, err := s.signToken(user.ID, s.cfg.JWTSecret, s.cfg.AccessTokenTTL, "")
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user.ID, s.cfg.JWTRefreshSecret, s.cfg.RefreshTokenTTL, "")
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]any{"refresh_token": refresh}); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:        access,
		RefreshToken: refresh,
		ExpiredTime:  expiry.Unix(),
	}, nil
}

func (s *authService) signToken(userID uint, secret string, ttl time.Duration, audience string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (s *authService) parseToken(tokenString, secret, audience string) (uint, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	var claims jwt.RegisteredClaims
	if _, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, opts...); err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// throttle rejects a login attempt while a failed one for the same account
// is still inside the configured window. Disabled when redis is not wired.
func (s *authService) throttle(ctx context.Context, email, lang string) error {
	if s.redis == nil || s.cfg.LoginAttemptWindow <= 0 {
		return nil
	}

	locked, err := s.redis.Exists(ctx, loginAttemptKey(email)).Result()
	if err != nil {
		log.Printf("auth: login throttle: %v", err)
		return nil
	}
	if locked > 0 {
		return apperror.New(apperror.ErrBadRequest, s.i18n.T("auth.too_many_attempts", lang, nil))
	}
	return nil
}

// armThrottle starts the lockout window after a failed password check.
func (s *authService) armThrottle(ctx context.Context, email string) {
	if s.redis == nil || s.cfg.LoginAttemptWindow <= 0 {
		return
	}
	if err := s.redis.SetNX(ctx, loginAttemptKey(email), 1, s.cfg.LoginAttemptWindow).Err(); err != nil {
		log.Printf("auth: login throttle: %v", err)
	}
}

func loginAttemptKey(email string) string {
	return "auth:login:" + email
}
