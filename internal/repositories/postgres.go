package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidvault/backend/internal/db"
	"github.com/vidvault/backend/internal/models"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for user accounts.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record. A username collision returns ErrConflict.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, username, password_hash, created_at)
        VALUES ($1, $2, $3, $4)
    `, user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByUsername fetches a user by their exact, case-sensitive username.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, username, password_hash, created_at
        FROM users
        WHERE username = $1
    `, username)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by username: %w", err)
	}

	return user, nil
}

// PostgresVideoRepository provides PostgreSQL-backed persistence for video metadata.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video metadata record owned by video.OwnerID.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, owner_id, title, description, tags, file_size, upload_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, video.ID, video.OwnerID, video.Title, video.Description, video.Tags, video.FileSize, video.UploadDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// ListByOwner returns one page of the owner's videos matching the filter,
// newest first, together with the filter-wide match count. Rows owned by
// anyone else are structurally excluded by the owner_id predicate.
func (r *PostgresVideoRepository) ListByOwner(ctx context.Context, ownerID string, filter VideoFilter, offset, limit int) (VideoPage, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return VideoPage{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	titlePattern := likePattern(filter.Title)
	tagsPattern := likePattern(filter.Tags)

	var total int
	row := conn.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM videos
        WHERE owner_id = $1
          AND title ILIKE $2
          AND tags ILIKE $3
    `, ownerID, titlePattern, tagsPattern)
	if err := row.Scan(&total); err != nil {
		return VideoPage{}, fmt.Errorf("count videos: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT id, owner_id, title, description, tags, file_size, upload_date
        FROM videos
        WHERE owner_id = $1
          AND title ILIKE $2
          AND tags ILIKE $3
        ORDER BY upload_date DESC, id DESC
        LIMIT $4 OFFSET $5
    `, ownerID, titlePattern, tagsPattern, limit, offset)
	if err != nil {
		return VideoPage{}, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	videos := make([]models.Video, 0, limit)
	for rows.Next() {
		var video models.Video
		if err := rows.Scan(&video.ID, &video.OwnerID, &video.Title, &video.Description, &video.Tags, &video.FileSize, &video.UploadDate); err != nil {
			return VideoPage{}, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return VideoPage{}, fmt.Errorf("iterate videos: %w", err)
	}

	return VideoPage{Videos: videos, Total: total}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps a filter in ILIKE wildcards, escaping LIKE metacharacters
// so a literal "50%" in a title filter matches only titles containing "50%".
// An empty filter yields "%%", which matches every (non-null) value.
func likePattern(filter string) string {
	return "%" + likeEscaper.Replace(filter) + "%"
}

var _ UserRepository = (*PostgresUserRepository)(nil)
var _ VideoRepository = (*PostgresVideoRepository)(nil)
