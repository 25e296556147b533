package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rlportal/research-log/internal/config"
	"github.com/rlportal/research-log/internal/middleware"
	"github.com/rlportal/research-log/internal/model"
	"github.com/rlportal/research-log/internal/queue"
	"github.com/rlportal/research-log/internal/repository"
	queue_publisher "github.com/rlportal/research-log/internal/service"
)

// activityPublisher mirrors a freshly appended log entry to the message
// broker. Swapped out in tests.
type activityPublisher func(ctx context.Context, e model.LogEntry)

// defaultActivityPublisher publishes best-effort: the store row is the
// source of truth and a broker failure never fails the request.
func defaultActivityPublisher(ctx context.Context, e model.LogEntry) {
	_ = queue_publisher.PublishActivityRecorded(ctx, queue.ActivityRecordedEvent{
		LogID:       e.ID,
		UserID:      e.UserID,
		Description: e.Description,
		RecordedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// recentLogLimit bounds the shared activity feed.
const recentLogLimit = 20

// LogHandler appends and reads the shared activity log.
type LogHandler struct {
	Cfg  config.Config
	Logs repository.LogRepository

	publish activityPublisher
}

func NewLogHandler(cfg config.Config, logs repository.LogRepository) *LogHandler {
	return &LogHandler{Cfg: cfg, Logs: logs, publish: defaultActivityPublisher}
}

type createLogReq struct {
	Description string `json:"description"`
	UserID      string `json:"user_id"`
}

// Create appends an entry. The user id is taken from the body for
// compatibility with existing clients; strict ownership mode rejects
// entries attributed to anyone but the caller.
func (h *LogHandler) Create(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
	}

	var req createLogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Description and user_id are required"})
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" || req.UserID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Description and user_id are required"})
	}
	if h.Cfg.StrictOwnership && req.UserID != p.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Cannot record activity for another user"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entry, err := h.Logs.Create(ctx, req.UserID, req.Description)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}
	h.publish(ctx, entry)

	return c.JSON(http.StatusCreated, entry)
}

// List returns the most recent entries across all users, newest first.
func (h *LogHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Logs.Recent(ctx, recentLogLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}
