package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/streakhub/server/models"
	"github.com/streakhub/server/utils"
)

// seedCatalog prepares db with the default challenges and one enrolled user.
func seedCatalog(t *testing.T, db *gorm.DB) (*models.User, map[string]*models.Challenge) {
	t.Helper()
	catalog := NewCatalogService(db)
	require.NoError(t, catalog.EnsureSeeded(defaultSeeds()))
	user := createUser(t, db, 500, "Dilshod", "dilshod")

	byslug := map[string]*models.Challenge{}
	for _, slug := range []string{"reading15", "wake6", "sport20"} {
		ch, err := catalog.BySlug(slug)
		require.NoError(t, err)
		byslug[slug] = ch
	}
	return user, byslug
}

func addCheckin(t *testing.T, db *gorm.DB, userID, challengeID uint, date string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Checkin{
		UserID:      userID,
		ChallengeID: challengeID,
		OnDate:      date,
		Value:       1,
		CreatedAt:   time.Now(),
	}).Error)
}

func TestRecordCheckinBoolInsideWindow(t *testing.T) {
	db := newTestDB(t)
	loc := testLocation(t)
	user, chs := seedCatalog(t, db)
	wake6 := chs["wake6"]

	at := time.Date(2025, 3, 12, 6, 0, 0, 0, loc)
	svc := fixedCheckinService(t, db, loc, at)
	require.NoError(t, svc.enrollments.Enroll(user.ID, wake6.ID))

	result, err := svc.RecordCheckin(user.ID, wake6)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Value)
	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, "2025-03-12", result.OnDate)
}

func TestRecordCheckinWindowClosed(t *testing.T) {
	db := newTestDB(t)
	loc := testLocation(t)
	user, chs := seedCatalog(t, db)
	wake6 := chs["wake6"]

	at := time.Date(2025, 3, 12, 7, 15, 0, 0, loc)
	svc := fixedCheckinService(t, db, loc, at)
	require.NoError(t, svc.enrollments.Enroll(user.ID, wake6.ID))

	_, err := svc.RecordCheckin(user.ID, wake6)
	assert.ErrorIs(t, err, ErrWindowClosed)

	var count int64
	require.NoError(t, db.Model(&models.Checkin{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestRecordCheckinWindowBoundaries(t *testing.T) {
	db := newTestDB(t)
	loc := testLocation(t)
	user, chs := seedCatalog(t, db)
	wake6 := chs["wake6"]

	enrollments := NewEnrollmentService(db)
	require.NoError(t, enrollments.Enroll(user.ID, wake6.ID))

	for _, clock := range []struct {
		hour, minute int
	}{{5, 40}, {7, 0}} {
		at := time.Date(2025, 3, 12, clock.hour, clock.minute, 0, 0, loc)
		svc := fixedCheckinService(t, db, loc, at)
		_, err := svc.RecordCheckin(user.ID, wake6)
		assert.NoError(t, err, "boundary %02d:%02d must accept", clock.hour, clock.minute)
	}
}

func TestRecordCheckinNotEnrolled(t *testing.T) {
	db := newTestDB(t)
	loc := testLocation(t)
	user, chs := seedCatalog(t, db)
	wake6 := chs["wake6"]

	// Inside the window, but the user never opted in
	at := time.Date(2025, 3, 12, 6, 0, 0, 0, loc)
	svc := fixedCheckinService(t, db, loc, at)

	_, err := svc.RecordCheckin(user.ID, wake6)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestRecordCheckinSameDayReplaces(t *testing.T) {
	db := newTestDB(t)
	loc := testLocation(t)
	user, chs := seedCatalog(t, db)
	wake6 := chs["wake6"]

	enrollments := NewEnrollmentService(db)
	require.NoError(t, enrollments.Enroll(user.ID, wake6.ID))

	first := time.Date(2025, 3, 12, 6, 0, 0, 0, loc)
	second := time.Date(2025, 3, 12, 6, 30, 0, 0, loc)

	_, err := fixedCheckinService(t, db, loc, first).RecordCheckin(user.ID, wake6)
	require.NoError(t, err)
	result, err := fixedCheckinService(t, db, loc, second).RecordCheckin(user.ID, wake6)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak)

	var records []models.Checkin
	require.NoError(t, db.Where("user_id = ? AND challenge_id = ?", user.ID, wake6.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-03-12", records[0].OnDate)
	// The surviving row reflects the later attempt
	assert.Equal(t, second.Unix(), records[0].CreatedAt.Unix())
}

func TestRecordCheckinMinutesRecordsThreshold(t *testing.T) {
	db := newTestDB(t)
	loc := testLocation(t)
	user, chs := seedCatalog(t, db)
	reading := chs["reading15"]

	enrollments := NewEnrollmentService(db)
	require.NoError(t, enrollments.Enroll(user.ID, reading.ID))

	at := time.Date(2025, 3, 12, 21, 30, 0, 0, loc)
	svc := fixedCheckinService(t, db, loc, at)

	// Always the minimum qualifying amount; no elapsed figure is collected
	result, err := svc.RecordCheckin(user.ID, reading)
	require.NoError(t, err)
	assert.Equal(t, 15, result.Value)
}

func TestStreakCountsConsecutiveDays(t *testing.T) {
	db := newTestDB(t)
	loc := testLocation(t)
	user, chs := seedCatalog(t, db)
	wake6 := chs["wake6"]

	at := time.Date(2025, 3, 12, 6, 30, 0, 0, loc)
	svc := fixedCheckinService(t, db, loc, at)
	require.NoError(t, svc.enrollments.Enroll(user.ID, wake6.ID))

	// D-1 and D-2 present, D-3 missing
	addCheckin(t, db, user.ID, wake6.ID, "2025-03-11")
	addCheckin(t, db, user.ID, wake6.ID, "2025-03-10")
	addCheckin(t, db, user.ID, wake6.ID, "2025-03-08")

	result, err := svc.RecordCheckin(user.ID, wake6)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Streak)
}

func TestStreakZeroWithoutTodaysCheckin(t *testing.T) {
	db := newTestDB(t)
	loc := testLocation(t)
	user, chs := seedCatalog(t, db)
	wake6 := chs["wake6"]

	at := time.Date(2025, 3, 12, 6, 30, 0, 0, loc)
	svc := fixedCheckinService(t, db, loc, at)

	// Long history, but nothing today
	addCheckin(t, db, user.ID, wake6.ID, "2025-03-11")
	addCheckin(t, db, user.ID, wake6.ID, "2025-03-10")
	addCheckin(t, db, user.ID, wake6.ID, "2025-03-09")

	streak, err := svc.Streak(user.ID, wake6.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestHasCheckin(t *testing.T) {
	db := newTestDB(t)
	loc := testLocation(t)
	user, chs := seedCatalog(t, db)
	wake6 := chs["wake6"]

	svc := fixedCheckinService(t, db, loc, time.Date(2025, 3, 12, 6, 0, 0, 0, loc))
	addCheckin(t, db, user.ID, wake6.ID, "2025-03-11")

	ok, err := svc.HasCheckin(user.ID, wake6.ID, "2025-03-11")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasCheckin(user.ID, wake6.ID, "2025-03-12")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDateStringUsesConfiguredZone(t *testing.T) {
	loc := testLocation(t)
	// 23:30 UTC on the 11th is already the 12th in Tashkent (UTC+5)
	at := time.Date(2025, 3, 11, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-12", utils.DateString(at.In(loc)))
}
