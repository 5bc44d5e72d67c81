package services

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/streakhub/server/models"
)

// EnrollmentService tracks which users opted into which challenges.
// Enrollment gates every check-in write.
type EnrollmentService struct {
	db *gorm.DB
}

// NewEnrollmentService creates a new service instance.
func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

// Enroll opts a user into a challenge. Inserting an existing pair is a
// silent no-op.
func (s *EnrollmentService) Enroll(userID, challengeID uint) error {
	enrollment := models.Enrollment{UserID: userID, ChallengeID: challengeID}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "challenge_id"}},
		DoNothing: true,
	}).Create(&enrollment).Error; err != nil {
		return fmt.Errorf("enroll user %d in challenge %d: %w", userID, challengeID, err)
	}
	return nil
}

// ListForUser returns the challenges the user is enrolled in, ordered by
// challenge id.
func (s *EnrollmentService) ListForUser(userID uint) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := s.db.
		Joins("JOIN enrollments ON enrollments.challenge_id = challenges.id").
		Where("enrollments.user_id = ?", userID).
		Order("challenges.id").
		Find(&challenges).Error
	if err != nil {
		return nil, fmt.Errorf("list enrollments for user %d: %w", userID, err)
	}
	return challenges, nil
}

// IsEnrolled reports whether the (user, challenge) pair exists.
func (s *EnrollmentService) IsEnrolled(userID, challengeID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Enrollment{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return count > 0, nil
}
