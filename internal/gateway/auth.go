package gateway

import (
	"context"
	"net/http"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
)

// Login authenticates against the backend and establishes the cookie session
// in this client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp models.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/login/", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout terminates the backend session.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/logout/", nil, nil, nil)
}

// Me fetches the current identity. 401/403 means the session is gone and the
// caller redirects to the landing page.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/me/", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register creates an account. The account stays inactive until the email
// OTP flow confirms it.
func (c *Client) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	body := map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	}

	var user models.User
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RequestOTP asks the backend to email a verification code.
func (c *Client) RequestOTP(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/request-otp/", nil, body, nil)
}

// VerifyOTP confirms the emailed code.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) error {
	body := map[string]string{
		"email": email,
		"code":  code,
	}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/verify-otp/", nil, body, nil)
}
