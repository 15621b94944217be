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

// AlbumFilter captures album search parameters.
type AlbumFilter struct {
	Search      *string
	ArtistID    *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	SortBy      string
	SortDesc    bool
	Limit       int
	Offset      int
}

// AlbumRepository encapsulates album persistence.
type AlbumRepository interface {
	Create(ctx context.Context, album *domain.Album) error
	Update(ctx context.Context, album *domain.Album) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Album, error)
	List(ctx context.Context, filter AlbumFilter) ([]domain.Album, int64, error)
}

type albumRepository struct {
	pool *pgxpool.Pool
}

// NewAlbumRepository instantiates repository.
func NewAlbumRepository(pool *pgxpool.Pool) AlbumRepository {
	return &albumRepository{pool: pool}
}

const albumColumns = `id, title, artist_id, cover_url, released_at, created_at, updated_at`

func (r *albumRepository) Create(ctx context.Context, album *domain.Album) error {
	const query = `
        INSERT INTO albums (title, artist_id, cover_url, released_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		album.Title,
		album.ArtistID,
		album.CoverURL,
		album.ReleasedAt,
	).Scan(&album.ID, &album.CreatedAt, &album.UpdatedAt)
}

func (r *albumRepository) Update(ctx context.Context, album *domain.Album) error {
	const query = `
        UPDATE albums SET title=$1, cover_url=$2, released_at=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		album.Title,
		album.CoverURL,
		album.ReleasedAt,
		album.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *albumRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM albums WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *albumRepository) GetByID(ctx context.Context, id string) (*domain.Album, error) {
	var album domain.Album
	if err := r.pool.QueryRow(ctx, `SELECT `+albumColumns+` FROM albums WHERE id=$1`, id).Scan(
		&album.ID,
		&album.Title,
		&album.ArtistID,
		&album.CoverURL,
		&album.ReleasedAt,
		&album.CreatedAt,
		&album.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &album, nil
}

func (r *albumRepository) List(ctx context.Context, filter AlbumFilter) ([]domain.Album, int64, error) {
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
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM albums WHERE `+where, args...).Scan(&total); err != nil {
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

	query := fmt.Sprintf(`SELECT %s FROM albums WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		albumColumns, where, column, direction, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var albums []domain.Album
	for rows.Next() {
		var album domain.Album
		if err := rows.Scan(
			&album.ID,
			&album.Title,
			&album.ArtistID,
			&album.CoverURL,
			&album.ReleasedAt,
			&album.CreatedAt,
			&album.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		albums = append(albums, album)
	}
	return albums, total, rows.Err()
}
