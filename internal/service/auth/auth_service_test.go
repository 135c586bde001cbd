package auth

import (
	"context"
	"testing"
	"time"

	"github.com/malchincamp/campbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func TestAuthService_Register_Success(t *testing.T) {
	mockUsers := &MockUserRepository{}

	service := NewAuthService(mockUsers, "test-secret", time.Hour)

	ctx := context.Background()
	mockUsers.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Once()

	user, err := service.Register(ctx, RegisterInput{
		Name:     "Bat",
		Email:    "  Bat@Example.COM ",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "bat@example.com", user.Email)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))

	mockUsers.AssertExpectations(t)
}

func TestAuthService_Register_ValidationErrors(t *testing.T) {
	service := NewAuthService(nil, "test-secret", time.Hour)

	ctx := context.Background()

	testCases := []struct {
		name  string
		input RegisterInput
	}{
		{name: "missing email", input: RegisterInput{Name: "Bat", Password: "password123"}},
		{name: "invalid email", input: RegisterInput{Name: "Bat", Email: "not-an-email", Password: "password123"}},
		{name: "short password", input: RegisterInput{Name: "Bat", Email: "bat@example.com", Password: "short"}},
		{name: "missing name", input: RegisterInput{Email: "bat@example.com", Password: "password123"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := service.Register(ctx, tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, user)
		})
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	mockUsers := &MockUserRepository{}

	service := NewAuthService(mockUsers, "test-secret", time.Hour)

	ctx := context.Background()
	mockUsers.On("Create", ctx, mock.Anything).Return(domain.ErrEmailTaken).Once()

	user, err := service.Register(ctx, RegisterInput{
		Name: "Bat", Email: "bat@example.com", Password: "password123",
	})

	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Nil(t, user)
}

func TestAuthService_LoginAndVerify(t *testing.T) {
	mockUsers := &MockUserRepository{}

	service := NewAuthService(mockUsers, "test-secret", time.Hour)

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &domain.User{ID: 11, Email: "bat@example.com", PasswordHash: string(hash), Role: domain.RoleCustomer}

	mockUsers.On("GetByEmail", ctx, "bat@example.com").Return(user, nil).Once()
	mockUsers.On("GetByID", ctx, int64(11)).Return(user, nil).Once()

	token, loggedIn, err := service.Login(ctx, "Bat@Example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user, loggedIn)

	verified, err := service.VerifyToken(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, user, verified)

	mockUsers.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockUsers := &MockUserRepository{}

	service := NewAuthService(mockUsers, "test-secret", time.Hour)

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &domain.User{ID: 11, Email: "bat@example.com", PasswordHash: string(hash)}

	mockUsers.On("GetByEmail", ctx, "bat@example.com").Return(user, nil).Once()

	token, loggedIn, err := service.Login(ctx, "bat@example.com", "wrong-password")

	assert.ErrorIs(t, err, domain.ErrBadCredentials)
	assert.Empty(t, token)
	assert.Nil(t, loggedIn)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	mockUsers := &MockUserRepository{}

	service := NewAuthService(mockUsers, "test-secret", time.Hour)

	ctx := context.Background()
	mockUsers.On("GetByEmail", ctx, "nobody@example.com").Return(nil, domain.ErrNotFound).Once()

	// unknown email reads the same as a wrong password
	token, loggedIn, err := service.Login(ctx, "nobody@example.com", "password123")

	assert.ErrorIs(t, err, domain.ErrBadCredentials)
	assert.Empty(t, token)
	assert.Nil(t, loggedIn)
}

func TestAuthService_VerifyToken_Invalid(t *testing.T) {
	service := NewAuthService(nil, "test-secret", time.Hour)

	ctx := context.Background()

	user, err := service.VerifyToken(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
	assert.Nil(t, user)
}

func TestAuthService_VerifyToken_WrongSecret(t *testing.T) {
	mockUsers := &MockUserRepository{}

	issuer := NewAuthService(mockUsers, "secret-a", time.Hour)
	verifier := NewAuthService(mockUsers, "secret-b", time.Hour)

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &domain.User{ID: 11, Email: "bat@example.com", PasswordHash: string(hash)}
	mockUsers.On("GetByEmail", ctx, "bat@example.com").Return(user, nil).Once()

	token, _, err := issuer.Login(ctx, "bat@example.com", "password123")
	assert.NoError(t, err)

	verified, err := verifier.VerifyToken(ctx, token)
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
	assert.Nil(t, verified)
}

func TestAuthService_VerifyToken_Expired(t *testing.T) {
	mockUsers := &MockUserRepository{}

	service := NewAuthService(mockUsers, "test-secret", -time.Hour)

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &domain.User{ID: 11, Email: "bat@example.com", PasswordHash: string(hash)}
	mockUsers.On("GetByEmail", ctx, "bat@example.com").Return(user, nil).Once()

	token, _, err := service.Login(ctx, "bat@example.com", "password123")
	assert.NoError(t, err)

	verified, err := service.VerifyToken(ctx, token)
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
	assert.Nil(t, verified)
}

func TestAuthService_PromoteToHerder(t *testing.T) {
	mockUsers := &MockUserRepository{}

	service := NewAuthService(mockUsers, "test-secret", time.Hour)

	ctx := context.Background()
	admin := &domain.User{ID: 1, Role: domain.RoleAdmin}
	customer := &domain.User{ID: 2, Role: domain.RoleCustomer}

	mockUsers.On("UpdateRole", ctx, int64(11), domain.RoleHerder).Return(nil).Once()

	assert.NoError(t, service.PromoteToHerder(ctx, admin, 11))
	assert.ErrorIs(t, service.PromoteToHerder(ctx, customer, 11), domain.ErrForbidden)

	mockUsers.AssertExpectations(t)
}
