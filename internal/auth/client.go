package auth

import (
	"context"
	"errors"

	"librarynet/internal/rpc"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Client performs the authentication exchange for the orchestrator.
type Client struct {
	rpc *rpc.Client
}

func NewClient(rc *rpc.Client) *Client {
	return &Client{rpc: rc}
}

// SignIn returns a session token on success.
func (c *Client) SignIn(ctx context.Context, username, password string) (string, error) {
	var reply []SignInReply
	creds := Credentials{Username: username, Password: password}
	if err := c.rpc.CallFlag(ctx, FlagSignIn, creds, &reply); err != nil {
		return "", err
	}
	if len(reply) == 0 || !reply[0].SignIn {
		return "", ErrInvalidCredentials
	}
	return reply[0].Token, nil
}

// SignUp registers the user; the failure reason comes back verbatim
// from the service.
func (c *Client) SignUp(ctx context.Context, username, password string) error {
	var reply []SignUpReply
	creds := Credentials{Username: username, Password: password}
	if err := c.rpc.CallFlag(ctx, FlagSignUp, creds, &reply); err != nil {
		return err
	}
	if len(reply) == 0 {
		return errors.New("empty reply from auth service")
	}
	if reply[0].SignUp != "success" {
		return &rpc.RemoteError{Service: "auth", Operation: FlagSignUp, Message: reply[0].SignUp}
	}
	return nil
}
