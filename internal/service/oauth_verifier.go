package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// OAuthProfile is the subset of a provider profile the auth flow needs.
type OAuthProfile struct {
	ProviderID string
	Email      string
	FirstName  string
	LastName   string
}

// OAuthVerifier exchanges a client-obtained provider access token for the
// profile it belongs to.
type OAuthVerifier interface {
	VerifyGoogle(ctx context.Context, accessToken string) (*OAuthProfile, error)
	VerifyFacebook(ctx context.Context, accessToken string) (*OAuthProfile, error)
}

type oauthVerifier struct{}

func NewOAuthVerifier() OAuthVerifier {
	return &oauthVerifier{}
}

func (v *oauthVerifier) VerifyGoogle(ctx context.Context, accessToken string) (*OAuthProfile, error) {
	var payload struct {
		Sub        string `json:"sub"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := fetchProfile(ctx, accessToken, "https://www.googleapis.com/oauth2/v3/userinfo", &payload); err != nil {
		return nil, err
	}

	return &OAuthProfile{
		ProviderID: payload.Sub,
		Email:      payload.Email,
		FirstName:  payload.GivenName,
		LastName:   payload.FamilyName,
	}, nil
}

func (v *oauthVerifier) VerifyFacebook(ctx context.Context, accessToken string) (*OAuthProfile, error) {
	var payload struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := fetchProfile(ctx, accessToken, "https://graph.facebook.com/me?fields=id,email,first_name,last_name", &payload); err != nil {
		return nil, err
	}

	return &OAuthProfile{
		ProviderID: payload.ID,
		Email:      payload.Email,
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
	}, nil
}

func fetchProfile(ctx context.Context, accessToken, url string, out any) error {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))

	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
