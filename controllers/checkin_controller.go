package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streakhub/server/services"
	"github.com/streakhub/server/utils"
)

// CheckinController records daily check-ins and reports personal streaks.
type CheckinController struct {
	catalog     *services.CatalogService
	enrollments *services.EnrollmentService
	checkins    *services.CheckinService
}

// NewCheckinController creates a new controller instance.
func NewCheckinController(catalog *services.CatalogService, enrollments *services.EnrollmentService, checkins *services.CheckinService) *CheckinController {
	return &CheckinController{catalog: catalog, enrollments: enrollments, checkins: checkins}
}

// CreateCheckin records today's check-in for the challenge named by slug.
// Domain failures come back with actionable messages; a repeated check-in
// on the same day replaces the earlier one.
func (c *CheckinController) CreateCheckin(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	ch, err := c.catalog.BySlug(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "challenge not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load challenge")
		return
	}

	result, err := c.checkins.RecordCheckin(userID, ch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWindowClosed):
			msg := fmt.Sprintf("window closed, open %s–%s", ch.WindowStart, ch.WindowEnd)
			utils.Error(ctx, http.StatusUnprocessableEntity, 42201, msg)
		case errors.Is(err, services.ErrNotEnrolled):
			utils.Error(ctx, http.StatusForbidden, 40310, "enroll in the challenge first")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to record check-in")
		}
		return
	}

	utils.Success(ctx, gin.H{
		"challenge": ch.Slug,
		"on_date":   result.OnDate,
		"value":     result.Value,
		"streak":    result.Streak,
	})
}

// MyStats returns the caller's current streak per enrolled challenge.
func (c *CheckinController) MyStats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	challenges, err := c.enrollments.ListForUser(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list enrollments")
		return
	}

	type stat struct {
		Slug   string `json:"slug"`
		Title  string `json:"title"`
		Streak int    `json:"streak"`
	}
	stats := make([]stat, 0, len(challenges))
	for _, ch := range challenges {
		streak, err := c.checkins.Streak(userID, ch.ID)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to compute streak")
			return
		}
		stats = append(stats, stat{Slug: ch.Slug, Title: ch.Title, Streak: streak})
	}

	utils.Success(ctx, gin.H{"items": stats})
}
