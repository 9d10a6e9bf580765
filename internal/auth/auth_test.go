package auth

import (
	"context"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarynet/internal/rpc"
	"librarynet/internal/testutil"
)

const testSecret = "test-secret"

func TestStoreCreateAndAuthenticate(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.Create("reader@example.com", "CorrectHorse1!"))
	assert.ErrorIs(t, store.Create("reader@example.com", "other"), ErrUsernameTaken)

	assert.True(t, store.Authenticate("reader@example.com", "CorrectHorse1!"))
	assert.False(t, store.Authenticate("reader@example.com", "wrong"))
	assert.False(t, store.Authenticate("stranger@example.com", "CorrectHorse1!"))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("CorrectHorse1!")
	require.NoError(t, err)
	assert.NotEqual(t, "CorrectHorse1!", hash)
	assert.True(t, VerifyPassword(hash, "CorrectHorse1!"))
	assert.False(t, VerifyPassword(hash, "correcthorse1!"))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testSecret, "reader@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", claims.Sub)

	_, err = ParseToken("wrong-secret", token)
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	token, err := GenerateToken(testSecret, "reader@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}

func flagRequest(flag, data string) rpc.Request {
	return rpc.Request{Flag: flag, Data: jsoniter.RawMessage(data)}
}

func TestServiceSignUp(t *testing.T) {
	service := NewService(NewStore(), testSecret)
	ctx := context.Background()

	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "success",
			data: `{"username":"reader@example.com","password":"CorrectHorse1!"}`,
			want: "success",
		},
		{
			name: "duplicate username",
			data: `{"username":"reader@example.com","password":"CorrectHorse1!"}`,
			want: "username already exists",
		},
		{
			name: "short password",
			data: `{"username":"other@example.com","password":"short"}`,
			want: "password must be at least 8 characters",
		},
		{
			name: "missing username",
			data: `{"password":"CorrectHorse1!"}`,
			want: "username is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, ok := service.Handle(ctx, flagRequest(FlagSignUp, tt.data)).([]SignUpReply)
			require.True(t, ok)
			require.Len(t, reply, 1)
			assert.Equal(t, tt.want, reply[0].SignUp)
		})
	}
}

func TestServiceSignIn(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Create("reader@example.com", "CorrectHorse1!"))
	service := NewService(store, testSecret)
	ctx := context.Background()

	good, ok := service.Handle(ctx,
		flagRequest(FlagSignIn, `{"username":"reader@example.com","password":"CorrectHorse1!"}`)).([]SignInReply)
	require.True(t, ok)
	require.Len(t, good, 1)
	assert.True(t, good[0].SignIn)

	claims, err := ParseToken(testSecret, good[0].Token)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", claims.Sub)

	bad, ok := service.Handle(ctx,
		flagRequest(FlagSignIn, `{"username":"reader@example.com","password":"wrong"}`)).([]SignInReply)
	require.True(t, ok)
	require.Len(t, bad, 1)
	assert.False(t, bad[0].SignIn)
	assert.Empty(t, bad[0].Token)
}

func TestServiceRejectsBadRequests(t *testing.T) {
	service := NewService(NewStore(), testSecret)
	ctx := context.Background()

	unknown, ok := service.Handle(ctx, flagRequest("sign_out", `{}`)).(rpc.StatusReply)
	require.True(t, ok)
	assert.Equal(t, "Invalid operation", unknown.Message)

	malformed, ok := service.Handle(ctx, flagRequest(FlagSignIn, `"creds"`)).(rpc.StatusReply)
	require.True(t, ok)
	assert.Equal(t, "malformed credentials", malformed.Message)
}

func TestClientExchangeOverTheWire(t *testing.T) {
	url := testutil.StartService(t, "auth", NewService(NewStore(), testSecret))
	client := NewClient(rpc.NewClient(url))
	ctx := context.Background()

	require.NoError(t, client.SignUp(ctx, "reader@example.com", "CorrectHorse1!"))

	err := client.SignUp(ctx, "reader@example.com", "CorrectHorse1!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username already exists")

	token, err := client.SignIn(ctx, "reader@example.com", "CorrectHorse1!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = client.SignIn(ctx, "reader@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
