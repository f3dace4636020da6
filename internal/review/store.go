// Package review persists manual moderation overrides. Overrides live in a
// local SQLite database, separate from the read-only partition files.
package review

import (
	"context"
	"errors"
	"fmt"

	"modboard/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the review decision table.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at path, migrating the schema on the
// way. ":memory:" is accepted for tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open review database: %w", err)
	}
	if err := db.AutoMigrate(&models.ReviewDecision{}); err != nil {
		return nil, fmt.Errorf("migrate review schema: %w", err)
	}
	return &Store{db: db}, nil
}

// validDecisions are the verdicts a reviewer may record.
var validDecisions = map[models.Decision]bool{
	models.DecisionSafe:   true,
	models.DecisionBlock:  true,
	models.DecisionReview: true,
}

// Save validates and persists one review decision.
func (s *Store) Save(ctx context.Context, decision *models.ReviewDecision) error {
	if decision.PostID == "" {
		return models.NewValidationError("post_id is required")
	}
	if !validDecisions[decision.Decision] {
		return models.NewValidationError(fmt.Sprintf("invalid decision %q", decision.Decision))
	}

	if err := s.db.WithContext(ctx).Create(decision).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// List returns up to limit decisions, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]models.ReviewDecision, error) {
	if limit <= 0 {
		limit = 50
	}

	var decisions []models.ReviewDecision
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&decisions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return decisions, nil
}

// Ping verifies the underlying database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// LatestForPost returns the most recent decision for a post, or nil when the
// post has never been reviewed.
func (s *Store) LatestForPost(ctx context.Context, postID string) (*models.ReviewDecision, error) {
	var decision models.ReviewDecision
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		First(&decision).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &decision, nil
}
