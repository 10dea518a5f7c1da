package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/muzz-match/internal/db"
)

// BlockRepository stores directed blocks. Filtering applies them both ways.
type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(database *gorm.DB) *BlockRepository {
	return &BlockRepository{db: database}
}

// Block records blocker -> blocked. Blocking twice is a no-op.
func (r *BlockRepository) Block(ctx context.Context, blockerID, blockedID uint64) error {
	if blockerID == blockedID {
		return &ValidationError{Field: "blocked_id", Err: ErrSelfBlock}
	}

	exists, err := userExists(ctx, r.db, blockedID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTargetNotFound
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&db.Block{BlockerID: blockerID, BlockedID: blockedID}).Error
}

// IsBlocked reports whether either user has blocked the other.
func (r *BlockRepository) IsBlocked(ctx context.Context, a, b uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}
