package services

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/streakhub/server/config"
	"github.com/streakhub/server/models"
	"github.com/streakhub/server/utils"
)

func TestMain(m *testing.M) {
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()
	os.Exit(m.Run())
}

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Challenge{}, &models.Enrollment{}, &models.Checkin{}))
	return db
}

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tashkent")
	require.NoError(t, err)
	return loc
}

func defaultSeeds() []config.ChallengeSeed {
	return []config.ChallengeSeed{
		{Slug: "reading15", Title: "Reading15", Kind: models.ChallengeKindMinutes, Threshold: 15, WindowStart: "21:00", WindowEnd: "23:59", Reminder: "reading reminder"},
		{Slug: "wake6", Title: "Wake6", Kind: models.ChallengeKindBool, Threshold: 0, WindowStart: "05:40", WindowEnd: "07:00", Reminder: "wake reminder"},
		{Slug: "sport20", Title: "Sport20", Kind: models.ChallengeKindMinutes, Threshold: 20, WindowStart: "19:00", WindowEnd: "23:59", Reminder: "sport reminder"},
	}
}

func createUser(t *testing.T, db *gorm.DB, telegramID int64, firstName, username string) *models.User {
	t.Helper()
	user := &models.User{TelegramID: telegramID, FirstName: firstName, Username: username}
	require.NoError(t, db.Create(user).Error)
	return user
}

// fixedCheckinService returns a ledger whose clock is pinned to at.
func fixedCheckinService(t *testing.T, db *gorm.DB, loc *time.Location, at time.Time) *CheckinService {
	t.Helper()
	svc := NewCheckinService(db, loc, NewEnrollmentService(db))
	svc.now = func() time.Time { return at }
	return svc
}
