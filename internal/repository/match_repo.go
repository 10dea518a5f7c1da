package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-match/internal/db"
)

// MatchRepository owns the Match + Conversation pair.
type MatchRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{
		db:  database,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// NormalizePair orders two user ids so that the smaller comes first.
func NormalizePair(a, b uint64) (uint64, uint64) {
	if a > b {
		return b, a
	}
	return a, b
}

// CreateMatch inserts a Match for the normalized pair and its Conversation in
// one transaction. Both rows are committed or neither is.
//
// Errors (always *MatchError, rolled back):
//   - ErrUserNotFound when either id does not reference a user.
//   - ErrDuplicateMatch when the pair is already matched, including when a
//     concurrent caller won the race on the unique index.
//
// Example:
//
//	repo.CreateMatch(ctx, 7, 3) // -> Match{UserAID: 3, UserBID: 7}
func (r *MatchRepository) CreateMatch(ctx context.Context, userA, userB uint64) (*db.Match, *db.Conversation, error) {
	if userA == userB {
		return nil, nil, &ValidationError{Field: "user_id", Err: ErrSelfAction}
	}
	a, b := NormalizePair(userA, userB)

	var (
		match db.Match
		conv  db.Conversation
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(&db.User{}).Where("id IN ?", []uint64{a, b}).Count(&found).Error; err != nil {
			return &MatchError{Step: StepMatch, Err: err}
		}
		if found != 2 {
			return &MatchError{Step: StepMatch, Err: ErrUserNotFound}
		}

		match = db.Match{UserAID: a, UserBID: b, MatchedAt: r.now()}
		if err := tx.Create(&match).Error; err != nil {
			if isDuplicateKey(err) {
				return &MatchError{Step: StepMatch, Err: fmt.Errorf("%w: %v", ErrDuplicateMatch, err)}
			}
			return &MatchError{Step: StepMatch, Err: err}
		}

		conv = db.Conversation{MatchID: match.ID}
		if err := tx.Create(&conv).Error; err != nil {
			return &MatchError{Step: StepConversation, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &match, &conv, nil
}

// FindByPair returns the match for a pair in either order, with its conversation.
func (r *MatchRepository) FindByPair(ctx context.Context, userA, userB uint64) (*db.Match, *db.Conversation, error) {
	a, b := NormalizePair(userA, userB)

	var match db.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		Take(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	var conv db.Conversation
	if err := r.db.WithContext(ctx).Where("match_id = ?", match.ID).Take(&conv).Error; err != nil {
		return nil, nil, err
	}
	return &match, &conv, nil
}

// ListForUser returns the user's matches, newest first. The participant
// filter is part of the query.
func (r *MatchRepository) ListForUser(ctx context.Context, userID uint64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("matched_at DESC, id DESC").
		Find(&matches).Error
	return matches, err
}

// DeleteMatch removes the pair's match and its conversation together (unmatch).
func (r *MatchRepository) DeleteMatch(ctx context.Context, userA, userB uint64) error {
	a, b := NormalizePair(userA, userB)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var match db.Match
		err := tx.Where("user_a_id = ? AND user_b_id = ?", a, b).Take(&match).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMatchNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Where("match_id = ?", match.ID).Delete(&db.Conversation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&match).Error
	})
}
