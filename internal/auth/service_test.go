package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-aksi/internal/auth"
)

type memStore struct {
	users  map[string]auth.User
	nextID int
}

func newMemStore() *memStore {
	return &memStore{users: map[string]auth.User{}}
}

func (s *memStore) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return auth.User{}, auth.ErrNotFound
}

func (s *memStore) GetByID(ctx context.Context, id string) (auth.User, error) {
	u, ok := s.users[id]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return u, nil
}

func (s *memStore) Insert(ctx context.Context, name, email, passwordHash, role string) (auth.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return auth.User{}, auth.ErrEmailExists
		}
	}
	s.nextID++
	u := auth.User{
		ID:           string(rune('0' + s.nextID)),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *memStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

func newTestService(t *testing.T, store auth.Store) *auth.Service {
	t.Helper()
	svc, err := auth.NewService(auth.Config{
		Store:          store,
		Secret:         "test-secret-test-secret-test-123",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func TestLoginAndParseToken(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestService(t, store)

	u, err := svc.Register(ctx, "Admin", "admin@example.com", "correct horse", auth.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, auth.RoleAdmin, u.Role)

	result, err := svc.Login(ctx, "Admin@Example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.Equal(t, u.ID, result.User.ID)

	id, err := svc.ParseAccessToken(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, id.UserID)
	require.Equal(t, auth.RoleAdmin, id.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestService(t, store)

	_, err := svc.Register(ctx, "Op", "op@example.com", "password123", auth.RoleOperator)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "op@example.com", "wrong")
	require.Error(t, err)

	_, err = svc.Login(ctx, "unknown@example.com", "password123")
	require.Error(t, err)
}

func TestParseExpiredToken(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestService(t, store)

	_, err := svc.Register(ctx, "Op", "op@example.com", "password123", "")
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	svc.WithNow(func() time.Time { return past })
	result, err := svc.Login(ctx, "op@example.com", "password123")
	require.NoError(t, err)

	svc.WithNow(time.Now)
	_, err = svc.ParseAccessToken(result.AccessToken)
	require.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newMemStore())

	_, err := svc.Register(ctx, "", "a@b.c", "password123", "")
	require.Error(t, err)
	_, err = svc.Register(ctx, "A", "", "password123", "")
	require.Error(t, err)
	_, err = svc.Register(ctx, "A", "a@b.c", "short", "")
	require.Error(t, err)
	_, err = svc.Register(ctx, "A", "a@b.c", "password123", "superuser")
	require.Error(t, err)

	u, err := svc.Register(ctx, "A", "a@b.c", "password123", "")
	require.NoError(t, err)
	require.Equal(t, auth.RoleOperator, u.Role)

	_, err = svc.Register(ctx, "B", "a@b.c", "password123", "")
	require.Error(t, err)
}

func TestEnsureAdminBootstrapsOnce(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestService(t, store)

	require.NoError(t, svc.EnsureAdmin(ctx, "admin@example.com", "bootstrap-pass"))
	total, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	// second call is a no-op once users exist
	require.NoError(t, svc.EnsureAdmin(ctx, "other@example.com", "bootstrap-pass"))
	total, err = store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
}

func TestPasswordHashIsArgon2id(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestService(t, store)

	u, err := svc.Register(ctx, "Op", "op@example.com", "password123", "")
	require.NoError(t, err)

	stored := store.users[u.ID]
	require.NotEqual(t, "password123", stored.PasswordHash)
	ok, err := argon2id.ComparePasswordAndHash("password123", stored.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}
