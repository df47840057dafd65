package service

import (
	"testing"
	"time"

	"financehub/internal/config"
	"financehub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpired() error {
	args := m.Called()
	return args.Error(0)
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret-key-at-least-32-chars-long",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockRefreshTokenRepository)
		svc := NewAuthService(userRepo, tokenRepo, testAuthConfig())

		userRepo.On("FindByEmail", "new@example.com").Return(nil, gorm.ErrRecordNotFound)
		userRepo.On("Create", mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "new@example.com" && u.Name == "newuser" && u.Password != "password123"
		})).Return(nil)

		user, err := svc.Register("newuser", "new@example.com", "password123")

		assert.NoError(t, err)
		assert.NotNil(t, user)
		// stored hash must verify against the plaintext
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	})

	t.Run("EmailAlreadyInUse", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockRefreshTokenRepository)
		svc := NewAuthService(userRepo, tokenRepo, testAuthConfig())

		userRepo.On("FindByEmail", "taken@example.com").Return(&models.User{ID: "u-1"}, nil)

		user, err := svc.Register("someone", "taken@example.com", "password123")

		assert.ErrorIs(t, err, ErrEmailInUse)
		assert.Nil(t, user)
		userRepo.AssertNotCalled(t, "Create")
	})
}

func TestLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	stored := &models.User{ID: "u-1", Name: "alice", Email: "alice@example.com", Password: string(hash)}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockRefreshTokenRepository)
		svc := NewAuthService(userRepo, tokenRepo, testAuthConfig())

		userRepo.On("FindByEmail", "alice@example.com").Return(stored, nil)
		tokenRepo.On("Create", mock.Anything).Return(nil)

		accessToken, refreshToken, user, err := svc.Login("alice@example.com", "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, "u-1", user.ID)

		// the access token must round-trip through validation
		claims, err := svc.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
		assert.Equal(t, "alice@example.com", claims.Email)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockRefreshTokenRepository)
		svc := NewAuthService(userRepo, tokenRepo, testAuthConfig())

		userRepo.On("FindByEmail", "alice@example.com").Return(stored, nil)

		_, _, _, err := svc.Login("alice@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockRefreshTokenRepository)
		svc := NewAuthService(userRepo, tokenRepo, testAuthConfig())

		userRepo.On("FindByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, _, _, err := svc.Login("ghost@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockRefreshTokenRepository)
		svc := NewAuthService(userRepo, tokenRepo, testAuthConfig())

		tokenRepo.On("FindByToken", "refresh-1").Return(&models.RefreshToken{
			ID: "rt-1", UserID: "u-1", Token: "refresh-1",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)
		userRepo.On("FindByID", "u-1").Return(&models.User{ID: "u-1", Email: "alice@example.com"}, nil)

		accessToken, err := svc.RefreshAccessToken("refresh-1")
		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
	})

	t.Run("ExpiredTokenIsDeleted", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockRefreshTokenRepository)
		svc := NewAuthService(userRepo, tokenRepo, testAuthConfig())

		tokenRepo.On("FindByToken", "refresh-old").Return(&models.RefreshToken{
			ID: "rt-old", UserID: "u-1", Token: "refresh-old",
			ExpiresAt: time.Now().Add(-time.Hour),
		}, nil)
		tokenRepo.On("Delete", "rt-old").Return(nil)

		_, err := svc.RefreshAccessToken("refresh-old")
		assert.ErrorIs(t, err, ErrInvalidToken)
		tokenRepo.AssertCalled(t, "Delete", "rt-old")
	})

	t.Run("UnknownToken", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockRefreshTokenRepository)
		svc := NewAuthService(userRepo, tokenRepo, testAuthConfig())

		tokenRepo.On("FindByToken", "bogus").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.RefreshAccessToken("bogus")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidateToken(t *testing.T) {
	t.Run("GarbageToken", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), new(MockRefreshTokenRepository), testAuthConfig())

		_, err := svc.ValidateToken("not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", "u-1").Return(&models.User{ID: "u-1"}, nil)
		tokenRepo := new(MockRefreshTokenRepository)
		tokenRepo.On("FindByToken", "r").Return(&models.RefreshToken{
			ID: "rt", UserID: "u-1", ExpiresAt: time.Now().Add(time.Hour),
		}, nil)
		signer := NewAuthService(userRepo, tokenRepo, testAuthConfig())
		token, err := signer.RefreshAccessToken("r")
		assert.NoError(t, err)

		other := NewAuthService(new(MockUserRepository), new(MockRefreshTokenRepository), &config.Config{
			JWTSecret:       "a-different-secret-also-32-chars-xx",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
		})
		_, err = other.ValidateToken(token)
		assert.Error(t, err)
	})
}
