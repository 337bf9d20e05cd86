package handlers

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/internal/services"
)

type stubAuthService struct {
	users       map[string]*models.User
	passwords   map[string]string
	banned      map[int64]bool
	nextID      int64
	lastChange  [2]string
	changeErr   error
	lastChanged int64
}

func newStubAuthService() *stubAuthService {
	return &stubAuthService{
		users:     make(map[string]*models.User),
		passwords: make(map[string]string),
		banned:    make(map[int64]bool),
		nextID:    1,
	}
}

func (s *stubAuthService) Register(_ context.Context, input services.RegisterInput) (*models.User, error) {
	if len(input.Password) < 6 {
		return nil, services.ErrInvalidInput
	}
	if _, exists := s.users[input.Username]; exists {
		return nil, services.ErrConflict
	}
	user := &models.User{ID: s.nextID, Username: input.Username, Role: models.RoleUser}
	s.nextID++
	s.users[input.Username] = user
	s.passwords[input.Username] = input.Password
	return user, nil
}

func (s *stubAuthService) Login(_ context.Context, username string, password string) (*services.LoginResult, error) {
	user, ok := s.users[username]
	if !ok || s.passwords[username] != password {
		return nil, services.ErrInvalidCredentials
	}
	if s.banned[user.ID] {
		return nil, services.ErrUserBanned
	}
	return &services.LoginResult{User: user, Token: "token-" + strconv.FormatInt(user.ID, 10)}, nil
}

func (s *stubAuthService) ChangePassword(_ context.Context, userID int64, oldPassword string, newPassword string) error {
	s.lastChanged = userID
	s.lastChange = [2]string{oldPassword, newPassword}
	return s.changeErr
}

type stubUserLookup struct {
	user *models.User
	err  error
}

func (s *stubUserLookup) GetByID(_ context.Context, _ int64) (*models.User, error) {
	return s.user, s.err
}

func newAuthTestApp(service *stubAuthService, lookup *stubUserLookup) *fiber.App {
	handler := NewAuthHandler(service, lookup)

	app := fiber.New()
	app.Post("/register", handler.Register)
	app.Post("/login", handler.Login)
	app.Put("/user/:id/change-password", handler.ChangePassword)
	app.Get("/me", func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		c.Locals("role", "user")
		return c.Next()
	}, handler.Me)
	return app
}

func TestRegisterThenLoginReturnsSameUserID(t *testing.T) {
	service := newStubAuthService()
	app := newAuthTestApp(service, &stubUserLookup{})

	resp := performJSON(t, app, http.MethodPost, "/register", `{"username":"alice","password":"secret1","name":"Alice"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var registered struct {
		Message string `json:"message"`
		UserID  int64  `json:"user_id"`
	}
	decodeBody(t, resp, &registered)
	if registered.UserID == 0 {
		t.Fatalf("expected a user id in register response")
	}

	resp = performJSON(t, app, http.MethodPost, "/login", `{"username":"alice","password":"secret1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var loggedIn struct {
		UserID int64  `json:"user_id"`
		Role   string `json:"role"`
		Token  string `json:"token"`
	}
	decodeBody(t, resp, &loggedIn)
	if loggedIn.UserID != registered.UserID {
		t.Fatalf("expected login user id %d, got %d", registered.UserID, loggedIn.UserID)
	}
	if loggedIn.Role != models.RoleUser {
		t.Fatalf("expected role user, got %q", loggedIn.Role)
	}
	if loggedIn.Token == "" {
		t.Fatalf("expected a token")
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	service := newStubAuthService()
	app := newAuthTestApp(service, &stubUserLookup{})

	performJSON(t, app, http.MethodPost, "/register", `{"username":"alice","password":"secret1"}`)
	resp := performJSON(t, app, http.MethodPost, "/register", `{"username":"alice","password":"secret2"}`)
	expectError(t, resp, http.StatusConflict, "Username already exists")
}

func TestRegisterRequiresUsernameAndPassword(t *testing.T) {
	app := newAuthTestApp(newStubAuthService(), &stubUserLookup{})

	resp := performJSON(t, app, http.MethodPost, "/register", `{"username":"  "}`)
	expectError(t, resp, http.StatusBadRequest, "Username and password are required")
}

func TestLoginWithWrongPasswordReturnsUnauthorized(t *testing.T) {
	service := newStubAuthService()
	app := newAuthTestApp(service, &stubUserLookup{})

	performJSON(t, app, http.MethodPost, "/register", `{"username":"bob","password":"secret1"}`)
	resp := performJSON(t, app, http.MethodPost, "/login", `{"username":"bob","password":"nope"}`)
	expectError(t, resp, http.StatusUnauthorized, "Invalid credentials")
}

func TestLoginRejectsBannedUser(t *testing.T) {
	service := newStubAuthService()
	app := newAuthTestApp(service, &stubUserLookup{})

	performJSON(t, app, http.MethodPost, "/register", `{"username":"carl","password":"secret1"}`)
	service.banned[service.users["carl"].ID] = true

	resp := performJSON(t, app, http.MethodPost, "/login", `{"username":"carl","password":"secret1"}`)
	expectError(t, resp, http.StatusForbidden, "User is banned")
}

func TestChangePasswordMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "unknown user", err: services.ErrUserNotFound, status: http.StatusNotFound, message: "User not found"},
		{name: "wrong old password", err: services.ErrInvalidCredentials, status: http.StatusUnauthorized, message: "Old password is incorrect"},
		{name: "weak password", err: services.ErrInvalidInput, status: http.StatusBadRequest, message: "Password must be at least 6 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := newStubAuthService()
			service.changeErr = tc.err
			app := newAuthTestApp(service, &stubUserLookup{})

			resp := performJSON(t, app, http.MethodPut, "/user/9/change-password", `{"old_password":"a","new_password":"b"}`)
			expectError(t, resp, tc.status, tc.message)
			if service.lastChanged != 9 {
				t.Fatalf("expected user 9, got %d", service.lastChanged)
			}
		})
	}
}

func TestChangePasswordRequiresBothPasswords(t *testing.T) {
	service := newStubAuthService()
	app := newAuthTestApp(service, &stubUserLookup{})

	resp := performJSON(t, app, http.MethodPut, "/user/9/change-password", `{"old_password":"secret1"}`)
	expectError(t, resp, http.StatusBadRequest, "old_password and new_password are required")
	if service.lastChanged != 0 {
		t.Fatalf("expected service not to be called")
	}
}

func TestMeReturnsAuthenticatedUser(t *testing.T) {
	lookup := &stubUserLookup{user: &models.User{ID: 42, Username: "alice", Role: models.RoleCoach}}
	app := newAuthTestApp(newStubAuthService(), lookup)

	resp := performJSON(t, app, http.MethodGet, "/me", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var user models.User
	decodeBody(t, resp, &user)
	if user.ID != 42 || user.Role != models.RoleCoach {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestMeReturnsNotFoundForDeletedUser(t *testing.T) {
	app := newAuthTestApp(newStubAuthService(), &stubUserLookup{err: pgx.ErrNoRows})

	resp := performJSON(t, app, http.MethodGet, "/me", "")
	expectError(t, resp, http.StatusNotFound, "User not found")
}
