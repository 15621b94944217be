package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/music-catalog/internal/domain"
)

// AccountFilter captures list parameters shared by the user and artist stores.
type AccountFilter struct {
	Search      *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	SortBy      string
	SortDesc    bool
	Limit       int
	Offset      int
}

// UserRepository defines persistence access for end-users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter AccountFilter) ([]domain.User, int64, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, role=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, role, created_at, updated_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, role, created_at, updated_at
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter AccountFilter) ([]domain.User, int64, error) {
	clauses, args := accountClauses(filter, "name")

	where := strings.Join(clauses, " AND ")
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
        SELECT id, name, email, password_hash, role, created_at, updated_at
        FROM users WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		where, accountOrder(filter), accountLimit(filter), accountOffset(filter))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// accountClauses builds the shared WHERE fragment for account listings.
func accountClauses(filter AccountFilter, searchColumn string) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Search))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE $%d", searchColumn, len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	return clauses, args
}

func accountOrder(filter AccountFilter) string {
	column := "created_at"
	switch filter.SortBy {
	case "name", "email", "created_at", "updated_at":
		column = filter.SortBy
	}
	direction := "DESC"
	if !filter.SortDesc {
		direction = "ASC"
	}
	return column + " " + direction
}

func accountLimit(filter AccountFilter) int {
	if filter.Limit <= 0 {
		return 10
	}
	return filter.Limit
}

func accountOffset(filter AccountFilter) int {
	if filter.Offset < 0 {
		return 0
	}
	return filter.Offset
}
