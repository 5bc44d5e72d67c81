package services

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/streakhub/server/models"
)

// Wednesday 2025-03-12; week runs 2025-03-10 .. 2025-03-16.
func leaderboardFixture(t *testing.T) (*gorm.DB, time.Time, map[string]*models.User, *models.Challenge) {
	t.Helper()
	db := newTestDB(t)
	loc := testLocation(t)
	catalog := NewCatalogService(db)
	require.NoError(t, catalog.EnsureSeeded(defaultSeeds()))
	wake6, err := catalog.BySlug("wake6")
	require.NoError(t, err)

	users := map[string]*models.User{
		"anna":  createUser(t, db, 1, "Anna", "anna"),
		"bekzod": createUser(t, db, 2, "Bekzod", "bekzod"),
		"zafar": createUser(t, db, 3, "Zafar", "zafar"),
	}
	return db, time.Date(2025, 3, 12, 12, 0, 0, 0, loc), users, wake6
}

func TestWeeklyStandingsScoping(t *testing.T) {
	db, at, users, wake6 := leaderboardFixture(t)
	svc := NewLeaderboardService(db, nil, 0)

	// One day before week start: must not count
	addCheckin(t, db, users["anna"].ID, wake6.ID, "2025-03-09")
	// Week start and last day of the week: both count
	addCheckin(t, db, users["bekzod"].ID, wake6.ID, "2025-03-10")
	addCheckin(t, db, users["bekzod"].ID, wake6.ID, "2025-03-16")

	standings, err := svc.WeeklyStandings(at)
	require.NoError(t, err)
	require.Len(t, standings, 1)
	assert.Equal(t, users["bekzod"].ID, standings[0].UserID)
	assert.Equal(t, 2, standings[0].Points)
}

func TestWeeklyStandingsOrdering(t *testing.T) {
	db, at, users, wake6 := leaderboardFixture(t)
	svc := NewLeaderboardService(db, nil, 0)

	// zafar: 2 points, anna and bekzod tie at 1
	addCheckin(t, db, users["zafar"].ID, wake6.ID, "2025-03-10")
	addCheckin(t, db, users["zafar"].ID, wake6.ID, "2025-03-11")
	addCheckin(t, db, users["bekzod"].ID, wake6.ID, "2025-03-11")
	addCheckin(t, db, users["anna"].ID, wake6.ID, "2025-03-12")

	standings, err := svc.WeeklyStandings(at)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, "Zafar", standings[0].FirstName)
	// Tie broken by ascending first name
	assert.Equal(t, "Anna", standings[1].FirstName)
	assert.Equal(t, "Bekzod", standings[2].FirstName)
}

func TestWeeklyStandingsEmptyWeek(t *testing.T) {
	db, at, _, _ := leaderboardFixture(t)
	svc := NewLeaderboardService(db, nil, 0)

	standings, err := svc.WeeklyStandings(at)
	require.NoError(t, err)
	assert.Empty(t, standings)
}

func TestWeeklyStandingsOnePointPerRecordRegardlessOfValue(t *testing.T) {
	db, at, users, _ := leaderboardFixture(t)
	svc := NewLeaderboardService(db, nil, 0)
	catalog := NewCatalogService(db)
	reading, err := catalog.BySlug("reading15")
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Checkin{
		UserID: users["anna"].ID, ChallengeID: reading.ID, OnDate: "2025-03-12", Value: 15, CreatedAt: at,
	}).Error)

	standings, err := svc.WeeklyStandings(at)
	require.NoError(t, err)
	require.Len(t, standings, 1)
	assert.Equal(t, 1, standings[0].Points)
}

func TestWeeklyStandingsCached(t *testing.T) {
	db, at, users, wake6 := leaderboardFixture(t)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewLeaderboardService(db, rdb, time.Minute)

	addCheckin(t, db, users["anna"].ID, wake6.ID, "2025-03-12")

	first, err := svc.WeeklyStandings(at)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A new check-in lands, but the cached snapshot still answers
	addCheckin(t, db, users["bekzod"].ID, wake6.ID, "2025-03-12")
	second, err := svc.WeeklyStandings(at)
	require.NoError(t, err)
	assert.Len(t, second, 1)

	// Once the TTL lapses the fresh totals come through
	mr.FastForward(2 * time.Minute)
	third, err := svc.WeeklyStandings(at)
	require.NoError(t, err)
	assert.Len(t, third, 2)
}
