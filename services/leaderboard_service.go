package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/streakhub/server/utils"
)

// Standing is one row of the weekly leaderboard.
type Standing struct {
	UserID     uint   `json:"user_id"`
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	Username   string `json:"username"`
	Points     int    `json:"points"`
}

// LeaderboardService computes weekly point totals from the check-in ledger.
// One point per check-in regardless of challenge kind or value. A short
// Redis cache sits in front; any cache failure falls through to the DB.
type LeaderboardService struct {
	db  *gorm.DB
	rdb *redis.Client
	ttl time.Duration
}

// NewLeaderboardService creates a new service instance. rdb may be nil to
// disable caching.
func NewLeaderboardService(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *LeaderboardService {
	return &LeaderboardService{db: db, rdb: rdb, ttl: ttl}
}

// WeeklyStandings returns per-user check-in counts for the Monday–Sunday
// week containing the instant, points descending with ties broken by
// ascending first name. Users without check-ins this week are omitted; an
// empty result just means no activity yet.
func (s *LeaderboardService) WeeklyStandings(at time.Time) ([]Standing, error) {
	monday, sunday := utils.WeekBounds(at)
	start, end := utils.DateString(monday), utils.DateString(sunday)

	cacheKey := "leaderboard:weekly:" + start
	if cached, ok := s.cacheGet(cacheKey); ok {
		return cached, nil
	}

	var standings []Standing
	err := s.db.Table("checkins").
		Select("users.id AS user_id, users.telegram_id, users.first_name, users.username, COUNT(*) AS points").
		Joins("JOIN users ON users.id = checkins.user_id").
		Where("checkins.on_date BETWEEN ? AND ?", start, end).
		Group("users.id, users.telegram_id, users.first_name, users.username").
		Order("points DESC, users.first_name ASC").
		Scan(&standings).Error
	if err != nil {
		return nil, fmt.Errorf("weekly standings: %w", err)
	}

	s.cacheSet(cacheKey, standings)
	return standings, nil
}

func (s *LeaderboardService) cacheGet(key string) ([]Standing, bool) {
	if s.rdb == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var standings []Standing
	if err := json.Unmarshal(b, &standings); err != nil {
		return nil, false
	}
	return standings, true
}

func (s *LeaderboardService) cacheSet(key string, standings []Standing) {
	if s.rdb == nil || s.ttl <= 0 {
		return
	}
	b, err := json.Marshal(standings)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.rdb.Set(ctx, key, b, s.ttl).Err(); err != nil && utils.Sugar != nil {
		utils.Sugar.Warnf("leaderboard cache set failed key=%s err=%v", key, err)
	}
}
