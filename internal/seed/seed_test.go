package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/pkg/apperrors"
	"github.com/yigit/campus/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

type memoryUsers struct {
	byEmail   map[string]*appModels.User
	created   []*appModels.User
	lookupErr error
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*appModels.User, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memoryUsers) Create(_ context.Context, u *appModels.User) error {
	u.ID = int64(len(m.created) + 1)
	m.created = append(m.created, u)
	m.byEmail[u.Email] = u
	return nil
}

func TestCreateDefaultAdmin(t *testing.T) {
	auth.BcryptCost = bcrypt.MinCost
	ctx := context.Background()
	users := &memoryUsers{byEmail: map[string]*appModels.User{}}
	account := AdminAccount{Email: " Admin@College.edu ", Password: "changeme123"}

	require.NoError(t, CreateDefaultAdmin(ctx, users, account, zerolog.Nop()))
	require.Len(t, users.created, 1)
	admin := users.created[0]
	assert.Equal(t, "admin@college.edu", admin.Email)
	assert.Equal(t, "Administrator", admin.Name)
	assert.Equal(t, appModels.RoleAdmin, admin.Role)
	assert.True(t, auth.CheckPassword(admin.Password, "changeme123"))

	require.NoError(t, CreateDefaultAdmin(ctx, users, account, zerolog.Nop()))
	assert.Len(t, users.created, 1, "seeding is idempotent")
}

func TestCreateDefaultAdminSkipsAndFails(t *testing.T) {
	ctx := context.Background()
	users := &memoryUsers{byEmail: map[string]*appModels.User{}}

	require.NoError(t, CreateDefaultAdmin(ctx, users, AdminAccount{}, zerolog.Nop()))
	assert.Empty(t, users.created)

	err := CreateDefaultAdmin(ctx, users, AdminAccount{Email: "admin@college.edu", Password: "short"}, zerolog.Nop())
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	users.lookupErr = errors.New("connection refused")
	err = CreateDefaultAdmin(ctx, users, AdminAccount{Email: "admin@college.edu", Password: "changeme123"}, zerolog.Nop())
	require.Error(t, err)
	assert.Empty(t, users.created)
}
