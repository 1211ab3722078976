package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail      *models.User
	findByEmailErr   error
	upserted         *models.User
	lastLoginUpdated bool
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	if m.userByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.userByEmail == nil || m.userByEmail.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockAuthRepo) Upsert(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "seeded"
	}
	m.upserted = user
	return nil
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthFixture(t *testing.T, active bool) (*AuthService, *mockAuthRepo) {
	repo := &mockAuthRepo{userByEmail: &models.User{
		ID:           "user-1",
		Email:        "admin@uni.test",
		PasswordHash: hashed(t, "password123"),
		FullName:     "Admin",
		Role:         models.RoleAdmin,
		Active:       active,
	}}
	svc := NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour, Issuer: "academic-admin"})
	return svc, repo
}

func TestAuthServiceLoginIssuesValidToken(t *testing.T) {
	svc, repo := newAuthFixture(t, true)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@uni.test", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.True(t, repo.lastLoginUpdated)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t, true)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@uni.test", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc, repo := newAuthFixture(t, true)
	repo.findByEmailErr = sql.ErrNoRows

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@uni.test", Password: "password123"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceLoginInactive(t *testing.T) {
	svc, _ := newAuthFixture(t, false)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@uni.test", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}

func TestAuthServiceValidateTokenRejectsOtherSecret(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@uni.test", Password: "password123"})
	require.NoError(t, err)

	other := NewAuthService(&mockAuthRepo{}, nil, nil, AuthConfig{AccessTokenSecret: "other", Issuer: "academic-admin"})
	_, err = other.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceMe(t *testing.T) {
	svc, _ := newAuthFixture(t, true)

	info, err := svc.Me(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "admin@uni.test", info.Email)

	_, err = svc.Me(context.Background(), "someone-else")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceSeedAdmin(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "secret"})

	user, err := svc.SeedAdmin(context.Background(), SeedAdminRequest{Email: "root@uni.test", Password: "supersecret", FullName: "Root"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, user.Role)
	require.NotNil(t, repo.upserted)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.upserted.PasswordHash), []byte("supersecret")))

	_, err = svc.SeedAdmin(context.Background(), SeedAdminRequest{Email: "root@uni.test", Password: "short", FullName: "Root"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
