package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/music-catalog/internal/domain"
)

// RefreshTokenRepository is the durable store of issued refresh tokens. The
// token lifecycle service is its only writer.
type RefreshTokenRepository interface {
	Create(ctx context.Context, record *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	// DeleteByToken removes every record matching the token string and
	// returns the number removed. Absence is not an error.
	DeleteByToken(ctx context.Context, token string) (int64, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteBySubject(ctx context.Context, subjectID string, subjectType domain.SubjectType) (int64, error)
	// DeleteCreatedBefore removes records older than the cutoff regardless of
	// their own expires_in, returning the count. Used by the retention sweep.
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// Replace atomically deletes the record identified by oldID and inserts
	// next. When the old record is already gone (concurrent rotation or
	// revocation won the race) nothing is inserted and pgx.ErrNoRows is
	// returned. The conditional delete is the serialization point that keeps
	// one refresh token from yielding two valid successors.
	Replace(ctx context.Context, oldID string, next *domain.RefreshToken) error
}

type refreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepository returns a Postgres-backed implementation.
func NewRefreshTokenRepository(pool *pgxpool.Pool) RefreshTokenRepository {
	return &refreshTokenRepository{pool: pool}
}

const insertTokenQuery = `
        INSERT INTO refresh_tokens (token, user_id, artist_id, expires_in)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

func (r *refreshTokenRepository) Create(ctx context.Context, record *domain.RefreshToken) error {
	return r.pool.QueryRow(ctx, insertTokenQuery,
		record.Token,
		record.UserID,
		record.ArtistID,
		record.ExpiresIn,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	const query = `
        SELECT id, token, user_id, artist_id, expires_in, created_at
        FROM refresh_tokens WHERE token=$1`

	var record domain.RefreshToken
	if err := r.pool.QueryRow(ctx, query, token).Scan(
		&record.ID,
		&record.Token,
		&record.UserID,
		&record.ArtistID,
		&record.ExpiresIn,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *refreshTokenRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token=$1`, token)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *refreshTokenRepository) DeleteByID(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *refreshTokenRepository) DeleteBySubject(ctx context.Context, subjectID string, subjectType domain.SubjectType) (int64, error) {
	column := "user_id"
	if subjectType == domain.SubjectTypeArtist {
		column = "artist_id"
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE `+column+`=$1`, subjectID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *refreshTokenRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *refreshTokenRepository) Replace(ctx context.Context, oldID string, next *domain.RefreshToken) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE id=$1`, oldID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Another rotation or a revoke consumed the record first.
		return pgx.ErrNoRows
	}

	if err := tx.QueryRow(ctx, insertTokenQuery,
		next.Token,
		next.UserID,
		next.ArtistID,
		next.ExpiresIn,
	).Scan(&next.ID, &next.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
