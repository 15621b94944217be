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

// SongFilter captures catalog search parameters.
type SongFilter struct {
	Search      *string
	ArtistID    *string
	AlbumID     *string
	SinglesOnly bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	SortBy      string
	SortDesc    bool
	Limit       int
	Offset      int
}

// SongRepository encapsulates song persistence.
type SongRepository interface {
	Create(ctx context.Context, song *domain.Song) error
	Update(ctx context.Context, song *domain.Song) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Song, error)
	GetByTitle(ctx context.Context, title string) (*domain.Song, error)
	List(ctx context.Context, filter SongFilter) ([]domain.Song, int64, error)
}

type songRepository struct {
	pool *pgxpool.Pool
}

// NewSongRepository instantiates repository.
func NewSongRepository(pool *pgxpool.Pool) SongRepository {
	return &songRepository{pool: pool}
}

const songColumns = `id, title, artist_id, album_id, duration_seconds, released_at, created_at, updated_at`

func (r *songRepository) Create(ctx context.Context, song *domain.Song) error {
	const query = `
        INSERT INTO songs (title, artist_id, album_id, duration_seconds, released_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		song.Title,
		song.ArtistID,
		song.AlbumID,
		song.Duration,
		song.ReleasedAt,
	).Scan(&song.ID, &song.CreatedAt, &song.UpdatedAt)
}

func (r *songRepository) Update(ctx context.Context, song *domain.Song) error {
	const query = `
        UPDATE songs SET title=$1, album_id=$2, duration_seconds=$3, released_at=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		song.Title,
		song.AlbumID,
		song.Duration,
		song.ReleasedAt,
		song.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *songRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM songs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *songRepository) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	return r.fetchSingle(ctx, `SELECT `+songColumns+` FROM songs WHERE id=$1`, id)
}

func (r *songRepository) GetByTitle(ctx context.Context, title string) (*domain.Song, error) {
	const query = `SELECT ` + songColumns + ` FROM songs WHERE LOWER(title) LIKE LOWER($1) LIMIT 1`
	return r.fetchSingle(ctx, query, "%"+title+"%")
}

func (r *songRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Song, error) {
	var song domain.Song
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&song.ID,
		&song.Title,
		&song.ArtistID,
		&song.AlbumID,
		&song.Duration,
		&song.ReleasedAt,
		&song.CreatedAt,
		&song.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &song, nil
}

func (r *songRepository) List(ctx context.Context, filter SongFilter) ([]domain.Song, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Search))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(title) LIKE $%d", len(args)))
	}
	if filter.ArtistID != nil {
		args = append(args, *filter.ArtistID)
		clauses = append(clauses, fmt.Sprintf("artist_id=$%d", len(args)))
	}
	if filter.AlbumID != nil {
		args = append(args, *filter.AlbumID)
		clauses = append(clauses, fmt.Sprintf("album_id=$%d", len(args)))
	}
	if filter.SinglesOnly {
		clauses = append(clauses, "album_id IS NULL")
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	where := strings.Join(clauses, " AND ")
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM songs WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	column := "created_at"
	switch filter.SortBy {
	case "title", "released_at", "created_at", "updated_at":
		column = filter.SortBy
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM songs WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		songColumns, where, column, direction, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var songs []domain.Song
	for rows.Next() {
		var song domain.Song
		if err := rows.Scan(
			&song.ID,
			&song.Title,
			&song.ArtistID,
			&song.AlbumID,
			&song.Duration,
			&song.ReleasedAt,
			&song.CreatedAt,
			&song.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		songs = append(songs, song)
	}
	return songs, total, rows.Err()
}
