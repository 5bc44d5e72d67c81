package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/streakhub/server/models"
	"github.com/streakhub/server/utils"
)

// CheckinService is the check-in ledger: it owns the one-record-per-day
// invariant and the streak computation.
type CheckinService struct {
	db          *gorm.DB
	loc         *time.Location
	enrollments *EnrollmentService

	// now is swapped out by tests
	now func() time.Time
}

// CheckinResult is the outcome of a successful check-in.
type CheckinResult struct {
	Value  int    `json:"value"`
	Streak int    `json:"streak"`
	OnDate string `json:"on_date"`
}

// NewCheckinService creates a new service instance bound to the configured zone.
func NewCheckinService(db *gorm.DB, loc *time.Location, enrollments *EnrollmentService) *CheckinService {
	return &CheckinService{
		db:          db,
		loc:         loc,
		enrollments: enrollments,
		now:         time.Now,
	}
}

// Now returns the current instant in the configured zone.
func (s *CheckinService) Now() time.Time {
	return s.now().In(s.loc)
}

// RecordCheckin records today's check-in for the challenge.
//
// Order of gates: window first, then enrollment. The recorded value is 1
// for bool challenges and max(threshold, 1) for minutes challenges, the
// minimum qualifying amount; no actual elapsed figure is collected. A
// second check-in on the same local day replaces the first inside one
// transaction, so concurrent attempts for the same key settle on exactly
// one row.
func (s *CheckinService) RecordCheckin(userID uint, ch *models.Challenge) (*CheckinResult, error) {
	now := s.Now()

	open, err := utils.InWindow(ch.WindowStart, ch.WindowEnd, now)
	if err != nil {
		return nil, fmt.Errorf("challenge %s window: %w", ch.Slug, err)
	}
	if !open {
		return nil, fmt.Errorf("%w: open %s–%s", ErrWindowClosed, ch.WindowStart, ch.WindowEnd)
	}

	enrolled, err := s.enrollments.IsEnrolled(userID, ch.ID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	value := 1
	if ch.Kind == models.ChallengeKindMinutes {
		value = max(ch.Threshold, 1)
	}

	today := utils.DateString(now)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND challenge_id = ? AND on_date = ?", userID, ch.ID, today).
			Delete(&models.Checkin{}).Error; err != nil {
			return err
		}
		record := models.Checkin{
			UserID:      userID,
			ChallengeID: ch.ID,
			OnDate:      today,
			Value:       value,
			CreatedAt:   now,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, fmt.Errorf("record check-in for user %d challenge %s: %w", userID, ch.Slug, err)
	}

	streak, err := s.Streak(userID, ch.ID)
	if err != nil {
		return nil, err
	}
	return &CheckinResult{Value: value, Streak: streak, OnDate: today}, nil
}

// Streak counts consecutive local days with a check-in, ending today. Zero
// means no current streak and is not an error. Recomputed on every call;
// nothing persisted, nothing to drift.
func (s *CheckinService) Streak(userID, challengeID uint) (int, error) {
	now := s.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	streak := 0
	for {
		ok, err := s.HasCheckin(userID, challengeID, utils.DateString(day))
		if err != nil {
			return 0, err
		}
		if !ok {
			return streak, nil
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// HasCheckin reports whether a check-in exists for the local date.
func (s *CheckinService) HasCheckin(userID, challengeID uint, date string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Checkin{}).
		Where("user_id = ? AND challenge_id = ? AND on_date = ?", userID, challengeID, date).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check check-in existence: %w", err)
	}
	return count > 0, nil
}
