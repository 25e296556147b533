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
	"github.com/rlportal/research-log/internal/repository"
)

// ResearchHandler creates and lists research records.
type ResearchHandler struct {
	Cfg      config.Config
	Research repository.ResearchRepository
}

func NewResearchHandler(cfg config.Config, research repository.ResearchRepository) *ResearchHandler {
	return &ResearchHandler{Cfg: cfg, Research: research}
}

type createResearchReq struct {
	Description string  `json:"description"`
	FileURL     *string `json:"file_url"`
}

// Create inserts a record owned by the caller. The owning user id always
// comes from the authenticated principal, never from the request body, so a
// user can only create records attributed to themselves.
func (h *ResearchHandler) Create(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
	}

	var req createResearchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Description is required"})
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Description is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec, err := h.Research.Create(ctx, p.ID, desc, req.FileURL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// List returns all records for the user named by the user_id query
// parameter, newest first and unpaginated. By default any authenticated
// user may supply any user id; strict ownership mode rejects ids that do
// not match the caller.
func (h *ResearchHandler) List(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
	}

	userID := c.QueryParam("user_id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "user_id query parameter is required"})
	}
	if h.Cfg.StrictOwnership && userID != p.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Cannot read another user's research"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	recs, err := h.Research.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}
	if recs == nil {
		recs = []model.ResearchRecord{}
	}
	return c.JSON(http.StatusOK, recs)
}
