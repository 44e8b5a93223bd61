package repositories

import (
	"context"

	"github.com/vidvault/backend/internal/models"
)

// VideoFilter narrows a catalog listing. Empty fields match everything; set
// fields are case-insensitive substring matches, ANDed together.
type VideoFilter struct {
	Title string
	Tags  string
}

// VideoPage is one window of a filtered listing. Total counts every row
// matching the filter, independent of the window.
type VideoPage struct {
	Videos []models.Video
	Total  int
}

// VideoRepository exposes data access for owned video metadata. Every read
// and write is scoped to a single owner.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	ListByOwner(ctx context.Context, ownerID string, filter VideoFilter, offset, limit int) (VideoPage, error)
}
