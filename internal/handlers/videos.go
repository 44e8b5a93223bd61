package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidvault/backend/internal/logging"
	"github.com/vidvault/backend/internal/models"
	"github.com/vidvault/backend/internal/repositories"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// VideoHandler provides the owner-scoped video catalog endpoints.
type VideoHandler struct {
	Videos  VideoStore
	NowFunc func() time.Time
}

// Upload handles POST /upload requests for the authenticated caller.
func (h VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Videos == nil {
		logger.Error("video store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "video services unavailable"})
		return
	}

	identity, ok := IdentityFromContext(ctx)
	if !ok {
		logger.Error("upload reached without an authenticated identity")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "missing caller identity"})
		return
	}

	ctx, span := logging.StartSpan(ctx, "videos.upload")
	defer span.End()
	logger = logging.FromContext(ctx)

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid upload payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		logger.Warn("upload missing title")
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	uploadDate := h.now()
	if req.UploadDate != nil {
		uploadDate = req.UploadDate.UTC()
	}

	video := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     identity.UserID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		FileSize:    req.FileSize,
		UploadDate:  uploadDate,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		logger.Error("failed to store video", "error", err, "videoId", video.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to store video"})
		return
	}

	respondJSON(ctx, w, http.StatusCreated, toVideoResponse(video))
}

// List handles GET /videos requests: the caller's own videos, filtered and
// paginated. The owner scope comes from the verified identity, never from input.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Videos == nil {
		logger.Error("video store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "video services unavailable"})
		return
	}

	identity, ok := IdentityFromContext(ctx)
	if !ok {
		logger.Error("list reached without an authenticated identity")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "missing caller identity"})
		return
	}

	ctx, span := logging.StartSpan(ctx, "videos.list")
	defer span.End()
	logger = logging.FromContext(ctx)

	query := r.URL.Query()

	page, err := positiveIntParam(query.Get("page"), defaultPage)
	if err != nil {
		logger.Warn("invalid page parameter", "page", query.Get("page"))
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid page parameter"})
		return
	}

	limit, err := positiveIntParam(query.Get("limit"), defaultLimit)
	if err != nil {
		logger.Warn("invalid limit parameter", "limit", query.Get("limit"))
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid limit parameter"})
		return
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	filter := repositories.VideoFilter{
		Title: query.Get("title"),
		Tags:  query.Get("tags"),
	}

	result, err := h.Videos.ListByOwner(ctx, identity.UserID, filter, (page-1)*limit, limit)
	if err != nil {
		logger.Error("failed to list videos", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve videos"})
		return
	}

	videos := make([]videoResponse, 0, len(result.Videos))
	for _, video := range result.Videos {
		videos = append(videos, toVideoResponse(video))
	}

	respondJSON(ctx, w, http.StatusOK, listResponse{Videos: videos, Total: result.Total})
}

// positiveIntParam parses a 1-based numeric query parameter. Absent values use
// the fallback; non-numeric or non-positive values are rejected rather than
// clamped, so a caller typo never silently returns page one.
func positiveIntParam(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

type uploadRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        string     `json:"tags"`
	FileSize    int64      `json:"fileSize"`
	UploadDate  *time.Time `json:"uploadDate"`
}

type videoResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        string    `json:"tags"`
	FileSize    int64     `json:"fileSize"`
	UploadDate  time.Time `json:"uploadDate"`
}

type listResponse struct {
	Videos []videoResponse `json:"videos"`
	Total  int             `json:"total"`
}

func toVideoResponse(video models.Video) videoResponse {
	return videoResponse{
		ID:          video.ID,
		OwnerID:     video.OwnerID,
		Title:       video.Title,
		Description: video.Description,
		Tags:        video.Tags,
		FileSize:    video.FileSize,
		UploadDate:  video.UploadDate,
	}
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
