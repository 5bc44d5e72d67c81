package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/streakhub/server/config"
	"github.com/streakhub/server/models"
	"github.com/streakhub/server/utils"
)

// CatalogService reads the challenge catalog. Challenges are seeded once at
// startup and read-only afterwards; there is no runtime administration
// surface.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new service instance.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListAll returns every challenge ordered by creation id.
func (s *CatalogService) ListAll() ([]models.Challenge, error) {
	var challenges []models.Challenge
	if err := s.db.Order("id").Find(&challenges).Error; err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return challenges, nil
}

// BySlug returns one challenge or ErrChallengeNotFound.
func (s *CatalogService) BySlug(slug string) (*models.Challenge, error) {
	var ch models.Challenge
	if err := s.db.Where("slug = ?", slug).First(&ch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("load challenge %s: %w", slug, err)
	}
	return &ch, nil
}

// EnsureSeeded inserts the default challenges when their slugs are absent.
// Existing rows are left untouched, so repeated boots are no-ops. Seed
// definitions are validated up front: a bad one is a configuration error
// and aborts the boot.
func (s *CatalogService) EnsureSeeded(seeds []config.ChallengeSeed) error {
	for _, seed := range seeds {
		if err := validateSeed(seed); err != nil {
			return err
		}
		ch := models.Challenge{
			Slug:        seed.Slug,
			Title:       seed.Title,
			Kind:        seed.Kind,
			Threshold:   seed.Threshold,
			WindowStart: seed.WindowStart,
			WindowEnd:   seed.WindowEnd,
			Reminder:    seed.Reminder,
		}
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&ch).Error; err != nil {
			return fmt.Errorf("seed challenge %s: %w", seed.Slug, err)
		}
	}
	return nil
}

func validateSeed(seed config.ChallengeSeed) error {
	if seed.Slug == "" {
		return fmt.Errorf("challenge seed with empty slug")
	}
	if seed.Kind != models.ChallengeKindBool && seed.Kind != models.ChallengeKindMinutes {
		return fmt.Errorf("challenge %s: unknown kind %q", seed.Slug, seed.Kind)
	}
	sh, sm, err := utils.ParseClock(seed.WindowStart)
	if err != nil {
		return fmt.Errorf("challenge %s: %w", seed.Slug, err)
	}
	eh, em, err := utils.ParseClock(seed.WindowEnd)
	if err != nil {
		return fmt.Errorf("challenge %s: %w", seed.Slug, err)
	}
	// Overnight windows are not supported: the window must open and close
	// on the same calendar day.
	if eh*60+em < sh*60+sm {
		return fmt.Errorf("challenge %s: window end %s precedes start %s", seed.Slug, seed.WindowEnd, seed.WindowStart)
	}
	return nil
}
