package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/scafette/ProjetDev/internal/models"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, username, email, password_hash, name, age, weight, height, sport_goal, role, coach_id, created_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

type UpdateProfileInput struct {
	Username  string
	Name      *string
	Age       *int
	Weight    *float64
	Height    *float64
	SportGoal *string
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Age,
		&user.Weight,
		&user.Height,
		&user.SportGoal,
		&user.Role,
		&user.CoachID,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func collectUsers(rows pgx.Rows) ([]models.User, error) {
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	query := `
		INSERT INTO users (username, email, password_hash, name, age, weight, height, sport_goal, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Age,
		user.Weight,
		user.Height,
		user.SportGoal,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (r *UserRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (r *UserRepository) ListClients(ctx context.Context, coachID int64) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE coach_id = $1 ORDER BY id`, coachID)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// UpdateProfile overwrites every profile column, matching PUT semantics.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, input UpdateProfileInput) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET username = $1, name = $2, age = $3, weight = $4, height = $5, sport_goal = $6
		WHERE id = $7
	`, input.Username, input.Name, input.Age, input.Weight, input.Height, input.SportGoal, id)
	return affectedOrNoRows(tag, err)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	return affectedOrNoRows(tag, err)
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, id)
	return affectedOrNoRows(tag, err)
}

func (r *UserRepository) SetCoach(ctx context.Context, id int64, coachID *int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET coach_id = $1 WHERE id = $2`, coachID, id)
	return affectedOrNoRows(tag, err)
}

// DetachFromCoach clears coach_id only when the client currently belongs to coachID.
func (r *UserRepository) DetachFromCoach(ctx context.Context, clientID int64, coachID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET coach_id = NULL
		WHERE id = $1 AND coach_id = $2
	`, clientID, coachID)
	return affectedOrNoRows(tag, err)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return affectedOrNoRows(tag, err)
}

func affectedOrNoRows(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
