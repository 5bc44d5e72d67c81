package main

import (
	"time"

	"github.com/streakhub/server/config"
	"github.com/streakhub/server/models"
	"github.com/streakhub/server/routes"
	"github.com/streakhub/server/services"
	"github.com/streakhub/server/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	// An unknown zone is a configuration error; fail at boot, not at call time
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		utils.Sugar.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}

	db := config.InitDatabase(&models.User{}, &models.Challenge{}, &models.Enrollment{}, &models.Checkin{})

	catalog := services.NewCatalogService(db)
	if err := catalog.EnsureSeeded(cfg.Challenges); err != nil {
		utils.Sugar.Fatalf("challenge seed failed: %v", err)
	}

	enrollments := services.NewEnrollmentService(db)
	checkins := services.NewCheckinService(db, loc, enrollments)
	leaderboard := services.NewLeaderboardService(db, utils.GetRedis(), time.Duration(cfg.LeaderboardCacheTTLSec)*time.Second)

	tg := utils.NewTelegramClient(cfg.TelegramBotToken)
	membership := services.NewGroupMembership(tg, cfg.AllowedGroupID)
	notifier := services.NewGroupNotifier(tg, cfg.AllowedGroupID)

	scheduler := services.NewReminderScheduler(notifier, loc, time.Duration(cfg.NotifyTimeoutSec)*time.Second)
	challenges, err := catalog.ListAll()
	if err != nil {
		utils.Sugar.Fatalf("load challenge catalog: %v", err)
	}
	for _, ch := range challenges {
		if ch.Reminder == "" {
			continue
		}
		if err := scheduler.AddTrigger(ch.Slug, ch.Reminder, ch.WindowStart); err != nil {
			utils.Sugar.Fatalf("bad reminder trigger for %s: %v", ch.Slug, err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := routes.SetupRouter(routes.Deps{
		DB:          db,
		Membership:  membership,
		Catalog:     catalog,
		Enrollments: enrollments,
		Checkins:    checkins,
		Leaderboard: leaderboard,
	})

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
