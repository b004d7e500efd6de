package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/config"
	appErrors "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/errors"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	repository "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/repositories"
	service "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTKey = "test-signing-key"

func setupUserService(t *testing.T) (service.UserService, *mockUserRepo, *mockRateLimitRepo) {
	t.Helper()

	userRepo := &mockUserRepo{}
	rateLimit := &mockRateLimitRepo{}
	security := &config.Security{JWTKey: testJWTKey}

	return service.NewUserService(userRepo, rateLimit, security), userRepo, rateLimit
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	req := &models.RegisterRequest{
		Name:     "Aziz",
		Email:    "aziz@zooz.shop",
		Password: "s3cret-pass",
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc, userRepo, _ := setupUserService(t)
		userRepo.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

		// Act
		user, err := svc.Register(ctx, req)

		// Assert
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, req.Email, user.Email)
		assert.False(t, user.IsAdmin, "Self-registration must never grant admin")
		assert.NotEqual(t, req.Password, user.Password, "Password must be stored hashed")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)))
		userRepo.AssertExpectations(t)
	})

	t.Run("Failure - Duplicate Email", func(t *testing.T) {
		// Arrange
		svc, userRepo, _ := setupUserService(t)
		userRepo.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).
			Return(repository.ErrDuplicate).Once()

		// Act
		user, err := svc.Register(ctx, req)

		// Assert
		require.Error(t, err)
		assert.Nil(t, user)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	password := "s3cret-pass"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:       uuid.New(),
		Name:     "Aziz",
		Email:    "aziz@zooz.shop",
		Password: string(hash),
		IsAdmin:  true,
	}

	req := &models.LoginRequest{Email: user.Email, Password: password}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc, userRepo, rateLimit := setupUserService(t)
		rateLimit.On("CheckLoginRateLimit", ctx, req.Email).Return(true, 4, 0, nil).Once()
		userRepo.On("GetUserByEmail", ctx, req.Email).Return(user, nil).Once()

		// Act
		resp, err := svc.Login(ctx, req)

		// Assert
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, 86400, resp.ExpiresIn)

		claims := &models.Claims{}
		_, err = jwt.ParseWithClaims(resp.Token, claims, func(_ *jwt.Token) (any, error) {
			return []byte(testJWTKey), nil
		})
		require.NoError(t, err, "Issued token should verify with the signing key")
		assert.Equal(t, user.ID, claims.UserID)
		assert.True(t, claims.IsAdmin)
	})

	t.Run("Failure - Rate Limited", func(t *testing.T) {
		// Arrange
		svc, _, rateLimit := setupUserService(t)
		rateLimit.On("CheckLoginRateLimit", ctx, req.Email).Return(false, 0, 42, nil).Once()

		// Act
		resp, err := svc.Login(ctx, req)

		// Assert
		require.Error(t, err)
		assert.Nil(t, resp)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeTooManyRequests, appErr.Code)
		assert.Contains(t, appErr.Detail, "42")
	})

	t.Run("Success - Rate Limiter Outage Does Not Block", func(t *testing.T) {
		// Arrange
		svc, userRepo, rateLimit := setupUserService(t)
		rateLimit.On("CheckLoginRateLimit", ctx, req.Email).
			Return(false, 0, 0, errors.New("redis: connection refused")).Once()
		userRepo.On("GetUserByEmail", ctx, req.Email).Return(user, nil).Once()

		// Act
		resp, err := svc.Login(ctx, req)

		// Assert
		require.NoError(t, err, "A limiter outage must fail open")
		require.NotNil(t, resp)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("Failure - Unknown Email", func(t *testing.T) {
		// Arrange
		svc, userRepo, rateLimit := setupUserService(t)
		rateLimit.On("CheckLoginRateLimit", ctx, req.Email).Return(true, 4, 0, nil).Once()
		userRepo.On("GetUserByEmail", ctx, req.Email).Return(nil, sql.ErrNoRows).Once()

		// Act
		resp, err := svc.Login(ctx, req)

		// Assert
		require.Error(t, err)
		assert.Nil(t, resp)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUnauthorized, appErr.Code)
		assert.Equal(t, "Invalid email or password", appErr.Message)
	})

	t.Run("Failure - Wrong Password", func(t *testing.T) {
		// Arrange
		svc, userRepo, rateLimit := setupUserService(t)
		rateLimit.On("CheckLoginRateLimit", ctx, req.Email).Return(true, 4, 0, nil).Once()
		userRepo.On("GetUserByEmail", ctx, req.Email).Return(user, nil).Once()

		// Act
		resp, err := svc.Login(ctx, &models.LoginRequest{Email: user.Email, Password: "wrong"})

		// Assert
		require.Error(t, err)
		assert.Nil(t, resp)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUnauthorized, appErr.Code)
		assert.Equal(t, "Invalid email or password", appErr.Message,
			"Wrong password and unknown email must be indistinguishable")
	})
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc, userRepo, _ := setupUserService(t)
		userRepo.On("GetUserByID", ctx, userID).
			Return(&models.User{ID: userID, Email: "aziz@zooz.shop"}, nil).Once()

		// Act
		user, err := svc.GetProfile(ctx, userID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		svc, userRepo, _ := setupUserService(t)
		userRepo.On("GetUserByID", ctx, userID).Return(nil, sql.ErrNoRows).Once()

		// Act
		user, err := svc.GetProfile(ctx, userID)

		// Assert
		require.Error(t, err)
		assert.Nil(t, user)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}
