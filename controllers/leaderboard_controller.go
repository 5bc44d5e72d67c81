package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streakhub/server/services"
	"github.com/streakhub/server/utils"
)

// LeaderboardController exposes the weekly standings.
type LeaderboardController struct {
	leaderboard *services.LeaderboardService
	checkins    *services.CheckinService
}

// NewLeaderboardController creates a new controller instance.
func NewLeaderboardController(leaderboard *services.LeaderboardService, checkins *services.CheckinService) *LeaderboardController {
	return &LeaderboardController{leaderboard: leaderboard, checkins: checkins}
}

// Weekly returns this week's standings with the week bounds. An empty list
// means no activity yet, not an error.
func (l *LeaderboardController) Weekly(ctx *gin.Context) {
	now := l.checkins.Now()
	standings, err := l.leaderboard.WeeklyStandings(now)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to compute standings")
		return
	}

	monday, sunday := utils.WeekBounds(now)
	utils.Success(ctx, gin.H{
		"week_start": utils.DateString(monday),
		"week_end":   utils.DateString(sunday),
		"items":      standings,
	})
}
