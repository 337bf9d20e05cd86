package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/pkg/utils"
)

type fakeAccountStore struct {
	users     map[string]*models.User
	nextID    int64
	createErr error
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{users: make(map[string]*models.User)}
}

func (s *fakeAccountStore) CreateUser(_ context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, exists := s.users[user.Username]; exists {
		return &pgconn.PgError{Code: "23505"}
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.Username] = user
	return nil
}

func (s *fakeAccountStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (s *fakeAccountStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeAccountStore) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	for _, user := range s.users {
		if user.ID == id {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeBanChecker map[int64]bool

func (f fakeBanChecker) IsBanned(_ context.Context, userID int64) (bool, error) {
	return f[userID], nil
}

const testSecret = "test-secret"

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	store := newFakeAccountStore()
	service := NewAuthService(store, fakeBanChecker{}, testSecret)

	user, err := service.Register(context.Background(), RegisterInput{Username: "  alice ", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Username != "alice" || user.Role != models.RoleUser {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.PasswordHash == "secret1" || !utils.CheckPassword("secret1", user.PasswordHash) {
		t.Fatalf("expected a bcrypt hash of the password")
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	service := NewAuthService(newFakeAccountStore(), nil, testSecret)

	cases := []RegisterInput{
		{Username: "", Password: "secret1"},
		{Username: "bob", Password: "short"},
	}
	for _, input := range cases {
		if _, err := service.Register(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", input, err)
		}
	}
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	service := NewAuthService(newFakeAccountStore(), nil, testSecret)

	if _, err := service.Register(context.Background(), RegisterInput{Username: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := service.Register(context.Background(), RegisterInput{Username: "alice", Password: "secret2"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLoginIssuesTokenWithUserClaims(t *testing.T) {
	store := newFakeAccountStore()
	service := NewAuthService(store, fakeBanChecker{}, testSecret)
	registered, err := service.Register(context.Background(), RegisterInput{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	result, err := service.Login(context.Background(), "alice", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := utils.ValidateToken(result.Token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "1" || claims.Role != models.RoleUser || result.User.ID != registered.ID {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginFailures(t *testing.T) {
	store := newFakeAccountStore()
	bans := fakeBanChecker{}
	service := NewAuthService(store, bans, testSecret)
	user, err := service.Register(context.Background(), RegisterInput{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := service.Login(context.Background(), "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := service.Login(context.Background(), "nobody", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	bans[user.ID] = true
	if _, err := service.Login(context.Background(), "alice", "secret1"); !errors.Is(err, ErrUserBanned) {
		t.Fatalf("expected ErrUserBanned, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	store := newFakeAccountStore()
	service := NewAuthService(store, nil, testSecret)
	user, err := service.Register(context.Background(), RegisterInput{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := service.ChangePassword(context.Background(), user.ID, "wrong", "secret2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := service.ChangePassword(context.Background(), user.ID, "secret1", "tiny"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := service.ChangePassword(context.Background(), 99, "secret1", "secret2"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := service.ChangePassword(context.Background(), user.ID, "secret1", "secret2"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := service.Login(context.Background(), "alice", "secret2"); err != nil {
		t.Fatalf("expected login with new password, got %v", err)
	}
}
