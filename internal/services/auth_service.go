package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/pkg/utils"
)

const minPasswordLength = 6

type accountStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type banChecker interface {
	IsBanned(ctx context.Context, userID int64) (bool, error)
}

type AuthService struct {
	users     accountStore
	bans      banChecker
	jwtSecret string
}

type RegisterInput struct {
	Username  string
	Email     *string
	Password  string
	Name      *string
	Age       *int
	Weight    *float64
	Height    *float64
	SportGoal *string
}

type LoginResult struct {
	User  *models.User
	Token string
}

func NewAuthService(users accountStore, bans banChecker, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		bans:      bans,
		jwtSecret: jwtSecret,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || len(input.Password) < minPasswordLength {
		return nil, ErrInvalidInput
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        input.Email,
		PasswordHash: hashed,
		Name:         input.Name,
		Age:          input.Age,
		Weight:       input.Weight,
		Height:       input.Height,
		SportGoal:    input.SportGoal,
		Role:         models.RoleUser,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username string, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if s.bans != nil {
		banned, err := s.bans.IsBanned(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("check ban: %w", err)
		}
		if banned {
			return nil, ErrUserBanned
		}
	}

	token, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), user.Role, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginResult{User: user, Token: token}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword string, newPassword string) error {
	user, err := lookupUser(ctx, s.users, userID, ErrUserNotFound)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLength {
		return ErrInvalidInput
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, hashed)
}
