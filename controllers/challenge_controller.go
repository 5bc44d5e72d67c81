package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streakhub/server/services"
	"github.com/streakhub/server/utils"
)

// ChallengeController exposes the challenge catalog and enrollment.
type ChallengeController struct {
	catalog     *services.CatalogService
	enrollments *services.EnrollmentService
}

// NewChallengeController creates a new controller instance.
func NewChallengeController(catalog *services.CatalogService, enrollments *services.EnrollmentService) *ChallengeController {
	return &ChallengeController{catalog: catalog, enrollments: enrollments}
}

// ListChallenges returns the full catalog in creation order.
func (c *ChallengeController) ListChallenges(ctx *gin.Context) {
	challenges, err := c.catalog.ListAll()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to list challenges")
		return
	}
	utils.Success(ctx, gin.H{"items": challenges})
}

// Enroll opts the caller into the challenge named by slug. Enrolling twice
// is fine and changes nothing.
func (c *ChallengeController) Enroll(ctx *gin.Context) {
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
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load challenge")
		return
	}

	if err := c.enrollments.Enroll(userID, ch.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to enroll")
		return
	}

	utils.Success(ctx, gin.H{"message": "enrolled", "challenge": ch})
}

// MyChallenges returns the challenges the caller is enrolled in.
func (c *ChallengeController) MyChallenges(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	challenges, err := c.enrollments.ListForUser(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to list enrollments")
		return
	}
	utils.Success(ctx, gin.H{"items": challenges})
}
