package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jamspace/jamspace/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret-that-is-long-enough-1234"
	testAnonKey  = "anon-public-key"
	testPassword = "correct-horse-battery"
)

type authFixture struct {
	*fixture
	users *fakeUserRepo
	auth  *AuthService
}

func newAuthFixture(expiry time.Duration) *authFixture {
	f := newFixture()
	users := newFakeUserRepo()
	email := NewEmailService("", "noreply@example.com", "Jamspace", true)
	return &authFixture{
		fixture: f,
		users:   users,
		auth:    NewAuthService(users, f.profileService, email, testSecret, expiry, testAnonKey),
	}
}

func (f *authFixture) signup(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := f.auth.Signup(context.Background(), SignupInput{
		Email:    email,
		Password: testPassword,
		Name:     "Ana",
		Role:     "Producer",
		Skills:   []string{"House", "Techno"},
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_SignupAcceptsShortPasswords(t *testing.T) {
	f := newAuthFixture(time.Hour)

	for i, password := range []string{"abc123", "drums4ev", "password123"} {
		email := fmt.Sprintf("user%d@example.com", i)
		_, err := f.auth.Signup(context.Background(), SignupInput{Email: email, Password: password, Name: "Ana"})
		require.NoError(t, err, password)

		_, _, err = f.auth.Login(context.Background(), email, password)
		assert.NoError(t, err, password)
	}
}

func TestAuthService_SignupCreatesProfile(t *testing.T) {
	f := newAuthFixture(time.Hour)
	user := f.signup(t, "  Ana@Example.com ")

	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEqual(t, testPassword, user.PasswordHash)
	assert.Equal(t, "Ana", user.Metadata.Name)

	profile, err := f.profileService.ByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProfileStats{}, profile.Stats)
	assert.Equal(t, []string{"House", "Techno"}, profile.Skills)
	assert.Equal(t, "Producer", profile.Role)
	assert.Equal(t, "ana@example.com", profile.Email)
}

func TestAuthService_SignupValidation(t *testing.T) {
	tests := []struct {
		name string
		in   SignupInput
	}{
		{"bad email", SignupInput{Email: "not-an-email", Password: testPassword, Name: "Ana"}},
		{"short password", SignupInput{Email: "ana@example.com", Password: "short", Name: "Ana"}},
		{"long password", SignupInput{Email: "ana@example.com", Password: strings.Repeat("x", 73), Name: "Ana"}},
		{"missing name", SignupInput{Email: "ana@example.com", Password: testPassword, Name: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(time.Hour)

			_, err := f.auth.Signup(context.Background(), tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Empty(t, f.users.users)
		})
	}
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	f := newAuthFixture(time.Hour)
	f.signup(t, "ana@example.com")

	_, err := f.auth.Signup(context.Background(), SignupInput{
		Email:    "ANA@example.com",
		Password: testPassword,
		Name:     "Other Ana",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrEmailAlreadyExists.Error(), verr.Message)
}

func TestAuthService_SignupRollsBackOnProfileFailure(t *testing.T) {
	f := newAuthFixture(time.Hour)
	f.kv.prefix, f.kv.armed = "user:", true

	_, err := f.auth.Signup(context.Background(), SignupInput{
		Email:    "ana@example.com",
		Password: testPassword,
		Name:     "Ana",
	})
	require.Error(t, err)
	assert.Empty(t, f.users.users)
	assert.Len(t, f.users.deleted, 1)

	// the email can be used again once the store recovers
	f.kv.armed = false
	f.signup(t, "ana@example.com")
}

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	f := newAuthFixture(time.Hour)
	user := f.signup(t, "ana@example.com")
	ctx := context.Background()

	loggedIn, token, err := f.auth.Login(ctx, "ANA@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, token)

	resolved := f.auth.Authenticate(ctx, token)
	require.NotNil(t, resolved)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, "Ana", resolved.Metadata.Name)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	f := newAuthFixture(time.Hour)
	f.signup(t, "ana@example.com")
	ctx := context.Background()

	_, _, err := f.auth.Login(ctx, "ana@example.com", "wrong-password-entirely")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.auth.Login(ctx, "ghost@example.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_AuthenticateRejects(t *testing.T) {
	f := newAuthFixture(time.Hour)
	user := f.signup(t, "ana@example.com")
	ctx := context.Background()

	foreign := NewAuthService(f.users, f.profileService, nil, "another-secret-another-secret-1234", time.Hour, "")
	foreignToken, err := foreign.GenerateJWT(user)
	require.NoError(t, err)

	expired := NewAuthService(f.users, f.profileService, nil, testSecret, -time.Minute, "")
	expiredToken, err := expired.GenerateJWT(user)
	require.NoError(t, err)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: user.ID})
	noExpiryToken, err := noExpiry.SignedString([]byte(testSecret))
	require.NoError(t, err)

	orphan, err := f.auth.GenerateJWT(&model.User{ID: "deleted-user", Email: "gone@example.com"})
	require.NoError(t, err)

	tests := map[string]string{
		"empty":          "",
		"anon key":       testAnonKey,
		"garbage":        "not.a.jwt",
		"foreign secret": foreignToken,
		"expired":        expiredToken,
		"no expiry":      noExpiryToken,
		"unknown user":   orphan,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, f.auth.Authenticate(ctx, token))
		})
	}
}

func TestAuthService_VerifyJWTClaims(t *testing.T) {
	f := newAuthFixture(time.Hour)
	user := &model.User{ID: "u1", Email: "ana@example.com"}

	token, err := f.auth.GenerateJWT(user)
	require.NoError(t, err)

	claims, err := f.auth.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}
