package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"

	"qr-menu/auth"
	"qr-menu/identity-svc/internal/domain"

	"github.com/lib/pq"
)

//go:embed migrations/*.sql
var Migrations embed.FS

const uniqueViolation = "23505"

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, user.ID, user.Email, user.PasswordHash).Scan(&user.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, "SELECT id, email, password_hash, created_at FROM users WHERE email = $1", email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUser(ctx, "SELECT id, email, password_hash, created_at FROM users WHERE id = $1", id)
}

func (r *PostgresRepository) getUser(ctx context.Context, query, arg string) (*domain.User, error) {
	var u domain.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// RoleOf returns the assigned role, or owner when the user has none.
func (r *PostgresRepository) RoleOf(ctx context.Context, userID string) (auth.Role, error) {
	var role string
	err := r.DB.QueryRowContext(ctx, "SELECT role FROM role_assignments WHERE user_id = $1", userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.RoleOwner, nil
	}
	if err != nil {
		return auth.RoleNone, err
	}
	return auth.Role(role), nil
}

// SetRole records a role assignment. Owner is the default, so assigning it
// removes any stored record instead.
func (r *PostgresRepository) SetRole(ctx context.Context, userID string, role auth.Role) error {
	if role == auth.RoleOwner {
		_, err := r.DB.ExecContext(ctx, "DELETE FROM role_assignments WHERE user_id = $1", userID)
		return err
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO role_assignments (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, assigned_at = now()
	`, userID, string(role))
	return err
}

func (r *PostgresRepository) ListAssignments(ctx context.Context) ([]domain.RoleAssignment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, role, assigned_at
		FROM role_assignments
		ORDER BY assigned_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []domain.RoleAssignment{}
	for rows.Next() {
		var a domain.RoleAssignment
		var role string
		if err := rows.Scan(&a.UserID, &role, &a.AssignedAt); err != nil {
			continue
		}
		a.Role = auth.Role(role)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
