package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"booklibrary/internal/platform/crypto"
	"booklibrary/internal/platform/validate"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes and hashes", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo)

		repo.On("GetByEmail", ctx, "reader@example.com").Return(User{}, ErrNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)

		u, err := svc.Register(ctx, RegisterInput{
			Email:    "  Reader@Example.com ",
			Username: " reader ",
			Password: "Str0ng!Pass",
		})

		require.NoError(t, err)
		assert.Equal(t, "generated-id", u.ID)
		assert.Equal(t, "reader@example.com", u.Email)
		assert.Equal(t, "reader", u.Username)
		assert.NotEqual(t, "Str0ng!Pass", u.PasswordHash)
		assert.True(t, crypto.VerifyPassword(u.PasswordHash, "Str0ng!Pass"))
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo)
		repo.On("GetByEmail", ctx, "reader@example.com").Return(User{ID: "existing"}, nil)

		_, err := svc.Register(ctx, RegisterInput{Email: "reader@example.com", Username: "reader", Password: "Str0ng!Pass"})

		assert.ErrorIs(t, err, ErrAlreadyExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo)

		_, err := svc.Register(ctx, RegisterInput{Email: "nope", Username: "ab", Password: "weak"})

		var verr *validate.Error
		require.True(t, errors.As(err, &verr))
		assert.True(t, verr.Has("email"))
		assert.True(t, verr.Has("username"))
		assert.True(t, verr.Has("password"))
		repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("storage failure on lookup", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo)
		boom := errors.Join(ErrStorage, errors.New("connection reset"))
		repo.On("GetByEmail", ctx, "reader@example.com").Return(User{}, boom)

		_, err := svc.Register(ctx, RegisterInput{Email: "reader@example.com", Username: "reader", Password: "Str0ng!Pass"})

		assert.ErrorIs(t, err, ErrStorage)
	})
}
