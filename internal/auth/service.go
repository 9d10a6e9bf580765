// Package auth implements the pass/fail authentication service the
// client signs in against before touching the ledger or history.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"librarynet/internal/rpc"
)

// Flag-object operation names. Authentication requests put
// {"sign_in": true} or {"sign_up": true} in the operation slot
// instead of a string.
const (
	FlagSignIn = "sign_in"
	FlagSignUp = "sign_up"
)

// Credentials is the data slot of both authentication calls. The
// validate tags apply to sign_up only; sign_in takes whatever was
// registered.
type Credentials struct {
	Username string `json:"username" validate:"required,min=3,max=120"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignInReply is the single element of a sign_in reply array.
type SignInReply struct {
	SignIn bool   `json:"sign_in"`
	Token  string `json:"token,omitempty"`
}

// SignUpReply is the single element of a sign_up reply array. SignUp
// is "success" or a failure reason such as "username already exists".
type SignUpReply struct {
	SignUp string `json:"sign_up"`
}

var ErrUsernameTaken = errors.New("username already exists")

// Store holds registered users in memory, username to bcrypt hash.
// Only the service's request loop touches it.
type Store struct {
	users map[string]string
}

func NewStore() *Store {
	return &Store{users: make(map[string]string)}
}

func (s *Store) Create(username, password string) error {
	if _, ok := s.users[username]; ok {
		return ErrUsernameTaken
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	s.users[username] = hash
	return nil
}

func (s *Store) Authenticate(username, password string) bool {
	hash, ok := s.users[username]
	return ok && VerifyPassword(hash, password)
}

// Service dispatches the two authentication operations. Replies are
// one-element arrays: the desktop client reads index 0.
type Service struct {
	store    *Store
	secret   string
	validate *validator.Validate
}

func NewService(store *Store, secret string) *Service {
	return &Service{store: store, secret: secret, validate: validator.New()}
}

func (s *Service) Handle(ctx context.Context, req rpc.Request) any {
	var creds Credentials
	if err := req.DecodeData(&creds); err != nil {
		return rpc.Error("malformed credentials")
	}

	switch req.Flag {
	case FlagSignIn:
		if !s.store.Authenticate(creds.Username, creds.Password) {
			return []SignInReply{{SignIn: false}}
		}
		token, err := GenerateToken(s.secret, creds.Username, TokenTTL)
		if err != nil {
			return rpc.Error("could not issue session token")
		}
		return []SignInReply{{SignIn: true, Token: token}}
	case FlagSignUp:
		if err := s.validate.Struct(creds); err != nil {
			return []SignUpReply{{SignUp: validationMessage(err)}}
		}
		if err := s.store.Create(creds.Username, creds.Password); err != nil {
			if errors.Is(err, ErrUsernameTaken) {
				return []SignUpReply{{SignUp: "username already exists"}}
			}
			return rpc.Error("could not create user")
		}
		return []SignUpReply{{SignUp: "success"}}
	}
	return rpc.Error("Invalid operation")
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid credentials"
	}
	fieldError := verrs[0]
	field := strings.ToLower(fieldError.Field())
	switch fieldError.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fieldError.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldError.Param())
	}
	return field + " is invalid"
}
