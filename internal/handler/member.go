package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rlportal/research-log/internal/model"
	"github.com/rlportal/research-log/internal/repository"
)

// MemberHandler serves the member directory and the research summary.
type MemberHandler struct {
	Profiles repository.ProfileRepository
	Research repository.ResearchRepository
}

func NewMemberHandler(profiles repository.ProfileRepository, research repository.ResearchRepository) *MemberHandler {
	return &MemberHandler{Profiles: profiles, Research: research}
}

type memberResp struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// List returns every member as {id,name}. Email and the legacy password
// column are never part of the bulk listing.
func (h *MemberHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	profiles, err := h.Profiles.All(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}

	out := make([]memberResp, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, memberResp{ID: p.ID, Name: p.Name})
	}
	return c.JSON(http.StatusOK, out)
}

type memberSummary struct {
	ID   string                 `json:"id"`
	Name string                 `json:"name"`
	Recs []model.ResearchRecord `json:"recs"`
}

// Summary returns, per member, the research records created inside the
// current 48-hour window. The window is computed exactly once per request,
// before the loop, so a day rollover while iterating cannot shift the
// boundary between members. Output order follows the profile listing order;
// recs may be empty.
func (h *MemberHandler) Summary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	profiles, err := h.Profiles.All(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}

	from, to := summaryWindow(time.Now())

	out := make([]memberSummary, 0, len(profiles))
	for _, p := range profiles {
		recs, err := h.Research.ListByUserBetween(ctx, p.ID, from, to)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
		}
		if recs == nil {
			recs = []model.ResearchRecord{}
		}
		out = append(out, memberSummary{ID: p.ID, Name: p.Name, Recs: recs})
	}
	return c.JSON(http.StatusOK, out)
}

// summaryWindow returns the half-open interval [start of yesterday, start of
// tomorrow) around now, in now's location. A record stamped exactly at the
// start of yesterday is inside the window; one stamped exactly at the start
// of tomorrow is not.
func summaryWindow(now time.Time) (from, to time.Time) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dayStart.AddDate(0, 0, -1), dayStart.AddDate(0, 0, 1)
}
