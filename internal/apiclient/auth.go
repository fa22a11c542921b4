package apiclient

import (
	"context"
	"net/http"

	"github.com/parley-dev/parley/shared/api"
)

// SignIn exchanges credentials for an access token. The token is not
// installed automatically; identity decides what to do with it.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	var out api.SignInResponse
	req := api.SignInRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/signin", nil, req, &out, http.StatusOK, "sign in"); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/signout", nil, nil, nil, http.StatusOK, "sign out")
}
