package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/music-catalog/internal/domain"
)

// ArtistRepository defines persistence access for artist accounts. Email
// uniqueness is enforced by this table's own constraint, independent of the
// users table.
type ArtistRepository interface {
	Create(ctx context.Context, artist *domain.Artist) error
	Update(ctx context.Context, artist *domain.Artist) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Artist, error)
	GetByEmail(ctx context.Context, email string) (*domain.Artist, error)
	GetByName(ctx context.Context, name string) (*domain.Artist, error)
	List(ctx context.Context, filter AccountFilter) ([]domain.Artist, int64, error)
}

type artistRepository struct {
	pool *pgxpool.Pool
}

// NewArtistRepository returns a Postgres-backed implementation.
func NewArtistRepository(pool *pgxpool.Pool) ArtistRepository {
	return &artistRepository{pool: pool}
}

func (r *artistRepository) Create(ctx context.Context, artist *domain.Artist) error {
	const query = `
        INSERT INTO artists (name, email, password_hash, role, bio)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		artist.Name,
		artist.Email,
		artist.PasswordHash,
		artist.Role,
		artist.Bio,
	).Scan(&artist.ID, &artist.CreatedAt, &artist.UpdatedAt)
}

func (r *artistRepository) Update(ctx context.Context, artist *domain.Artist) error {
	const query = `
        UPDATE artists SET name=$1, email=$2, password_hash=$3, role=$4, bio=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		artist.Name,
		artist.Email,
		artist.PasswordHash,
		artist.Role,
		artist.Bio,
		artist.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *artistRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM artists WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *artistRepository) GetByID(ctx context.Context, id string) (*domain.Artist, error) {
	const query = `
        SELECT id, name, email, password_hash, role, bio, created_at, updated_at
        FROM artists WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *artistRepository) GetByEmail(ctx context.Context, email string) (*domain.Artist, error) {
	const query = `
        SELECT id, name, email, password_hash, role, bio, created_at, updated_at
        FROM artists WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *artistRepository) GetByName(ctx context.Context, name string) (*domain.Artist, error) {
	const query = `
        SELECT id, name, email, password_hash, role, bio, created_at, updated_at
        FROM artists WHERE LOWER(name)=LOWER($1) LIMIT 1`
	return r.fetchSingle(ctx, query, name)
}

func (r *artistRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Artist, error) {
	var artist domain.Artist
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&artist.ID,
		&artist.Name,
		&artist.Email,
		&artist.PasswordHash,
		&artist.Role,
		&artist.Bio,
		&artist.CreatedAt,
		&artist.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &artist, nil
}

func (r *artistRepository) List(ctx context.Context, filter AccountFilter) ([]domain.Artist, int64, error) {
	clauses, args := accountClauses(filter, "name")

	where := strings.Join(clauses, " AND ")
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM artists WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
        SELECT id, name, email, password_hash, role, bio, created_at, updated_at
        FROM artists WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		where, accountOrder(filter), accountLimit(filter), accountOffset(filter))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var artists []domain.Artist
	for rows.Next() {
		var artist domain.Artist
		if err := rows.Scan(
			&artist.ID,
			&artist.Name,
			&artist.Email,
			&artist.PasswordHash,
			&artist.Role,
			&artist.Bio,
			&artist.CreatedAt,
			&artist.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		artists = append(artists, artist)
	}
	return artists, total, rows.Err()
}
