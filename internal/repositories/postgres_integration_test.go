package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidvault/backend/internal/models"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func TestPostgresUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresUserRepository(testPool)

	user := models.User{
		ID:           uuid.NewString(),
		Username:     "alice",
		PasswordHash: "secret-hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}

	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	dup := models.User{
		ID:           uuid.NewString(),
		Username:     user.Username,
		PasswordHash: "another-hash",
		CreatedAt:    time.Now().UTC(),
	}

	if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict when creating duplicate username, got %v", err)
	}

	fetched, err := repo.FindByUsername(ctx, user.Username)
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}

	if fetched.ID != user.ID || fetched.Username != user.Username || fetched.PasswordHash != user.PasswordHash {
		t.Fatalf("unexpected user fetched: %+v", fetched)
	}

	// usernames are case-sensitive
	if _, err := repo.FindByUsername(ctx, "Alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for different-cased username, got %v", err)
	}

	if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown username, got %v", err)
	}
}

func TestPostgresVideoRepository_CreateRequiresOwner(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresVideoRepository(testPool)

	orphan := models.Video{
		ID:         uuid.NewString(),
		OwnerID:    uuid.NewString(),
		Title:      "No Owner",
		UploadDate: time.Now().UTC(),
	}

	if err := repo.Create(ctx, orphan); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown owner, got %v", err)
	}
}

func TestPostgresVideoRepository_ListByOwnerScoping(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	videoRepo := NewPostgresVideoRepository(testPool)

	alice := createTestUser(t, userRepo, "alice")
	bob := createTestUser(t, userRepo, "bob")

	createTestVideo(t, videoRepo, alice.ID, "Trip to the coast", "beach,sun", time.Now().UTC())
	createTestVideo(t, videoRepo, bob.ID, "Trip to the mountains", "hiking", time.Now().UTC())

	page, err := videoRepo.ListByOwner(ctx, alice.ID, VideoFilter{}, 0, 10)
	if err != nil {
		t.Fatalf("list alice's videos: %v", err)
	}

	if page.Total != 1 || len(page.Videos) != 1 {
		t.Fatalf("expected exactly alice's video, got total=%d videos=%d", page.Total, len(page.Videos))
	}
	if page.Videos[0].OwnerID != alice.ID {
		t.Fatalf("video owned by %s leaked into alice's listing", page.Videos[0].OwnerID)
	}

	// a filter matching bob's video must still return nothing for alice
	page, err = videoRepo.ListByOwner(ctx, alice.ID, VideoFilter{Title: "mountains"}, 0, 10)
	if err != nil {
		t.Fatalf("list with cross-owner filter: %v", err)
	}
	if page.Total != 0 || len(page.Videos) != 0 {
		t.Fatalf("expected empty page, got total=%d videos=%d", page.Total, len(page.Videos))
	}
}

func TestPostgresVideoRepository_FilterAndPaginate(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	videoRepo := NewPostgresVideoRepository(testPool)

	owner := createTestUser(t, userRepo, "collector")
	base := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)

	beachTrip := createTestVideo(t, videoRepo, owner.ID, "Beach Trip", "beach,sun", base.Add(1*time.Minute))
	beachSunset := createTestVideo(t, videoRepo, owner.ID, "Sunset at the beach", "beach,evening", base.Add(2*time.Minute))
	hikeTrip := createTestVideo(t, videoRepo, owner.ID, "Mountain trip", "hiking,sun", base.Add(3*time.Minute))
	discount := createTestVideo(t, videoRepo, owner.ID, "50% off sale recap", "shopping", base.Add(4*time.Minute))

	// case-insensitive title substring
	page, err := videoRepo.ListByOwner(ctx, owner.ID, VideoFilter{Title: "TRIP"}, 0, 10)
	if err != nil {
		t.Fatalf("list by title: %v", err)
	}
	if page.Total != 2 || len(page.Videos) != 2 {
		t.Fatalf("expected 2 trip videos, got total=%d videos=%d", page.Total, len(page.Videos))
	}
	if page.Videos[0].ID != hikeTrip.ID || page.Videos[1].ID != beachTrip.ID {
		t.Fatalf("unexpected order: %+v", page.Videos)
	}

	// tags substring
	page, err = videoRepo.ListByOwner(ctx, owner.ID, VideoFilter{Tags: "beach"}, 0, 10)
	if err != nil {
		t.Fatalf("list by tags: %v", err)
	}
	if page.Total != 2 || len(page.Videos) != 2 {
		t.Fatalf("expected 2 beach videos, got total=%d videos=%d", page.Total, len(page.Videos))
	}
	if page.Videos[0].ID != beachSunset.ID || page.Videos[1].ID != beachTrip.ID {
		t.Fatalf("unexpected beach videos: %+v", page.Videos)
	}

	// filters combine as AND
	page, err = videoRepo.ListByOwner(ctx, owner.ID, VideoFilter{Title: "beach", Tags: "sun"}, 0, 10)
	if err != nil {
		t.Fatalf("list by title and tags: %v", err)
	}
	if page.Total != 1 || page.Videos[0].ID != beachTrip.ID {
		t.Fatalf("expected only %q, got %+v", beachTrip.Title, page.Videos)
	}

	// LIKE metacharacters are literal
	page, err = videoRepo.ListByOwner(ctx, owner.ID, VideoFilter{Title: "0%"}, 0, 10)
	if err != nil {
		t.Fatalf("list with literal percent: %v", err)
	}
	if page.Total != 1 || page.Videos[0].ID != discount.ID {
		t.Fatalf("expected only the 50%% video, got %+v", page.Videos)
	}

	// pagination windows share one total
	page, err = videoRepo.ListByOwner(ctx, owner.ID, VideoFilter{}, 0, 3)
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if page.Total != 4 || len(page.Videos) != 3 {
		t.Fatalf("expected total 4 with 3 rows, got total=%d videos=%d", page.Total, len(page.Videos))
	}

	page, err = videoRepo.ListByOwner(ctx, owner.ID, VideoFilter{}, 3, 3)
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if page.Total != 4 || len(page.Videos) != 1 {
		t.Fatalf("expected total 4 with 1 row, got total=%d videos=%d", page.Total, len(page.Videos))
	}

	// a window past the data is empty but keeps the total
	page, err = videoRepo.ListByOwner(ctx, owner.ID, VideoFilter{}, 30, 10)
	if err != nil {
		t.Fatalf("list past the data: %v", err)
	}
	if page.Total != 4 || len(page.Videos) != 0 {
		t.Fatalf("expected empty window with total 4, got total=%d videos=%d", page.Total, len(page.Videos))
	}
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "TRUNCATE TABLE videos, users CASCADE"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func createTestUser(t *testing.T, repo *PostgresUserRepository, username string) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: "password-hash",
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func createTestVideo(t *testing.T, repo *PostgresVideoRepository, ownerID, title, tags string, uploadedAt time.Time) models.Video {
	t.Helper()
	video := models.Video{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Title:      title,
		Tags:       tags,
		FileSize:   120,
		UploadDate: uploadedAt,
	}
	if err := repo.Create(context.Background(), video); err != nil {
		t.Fatalf("create test video %q: %v", title, err)
	}
	return video
}
