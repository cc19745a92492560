package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
)

// Register creates an account. It does not authenticate; callers route the
// user to login afterwards.
func (c *Client) Register(ctx context.Context, email, password, fullName string) error {
	payload := map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	}
	return c.doJSON(ctx, http.MethodPost, c.authURL+"/register", "", "register", KindValidation, payload, nil)
}

// Login exchanges credentials for a bearer token. The auth service takes an
// OAuth2 password form with the email in the username field.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := c.doForm(ctx, c.authURL+"/login", "login", KindAuth, form, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Me resolves the identity behind a token. A 401 means the token is no longer
// valid.
func (c *Client) Me(ctx context.Context, token string) (models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodGet, c.authURL+"/me", token, "me", KindAuth, nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
