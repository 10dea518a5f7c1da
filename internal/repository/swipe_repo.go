package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-match/internal/db"
	"github.com/oggyb/muzz-match/internal/utils/pagination"
)

// SwipeRepository provides data access methods for the Swipe model.
// It encapsulates all queries related to likes/passes between users.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// RecordSwipe inserts a new swipe made by swiper -> target.
//
// Behavior:
//   - action must be like or pass, otherwise ErrInvalidAction (as a ValidationError).
//   - target must be an existing user, otherwise ErrTargetNotFound.
//   - A second swipe on the same ordered pair fails with ErrDuplicateSwipe.
//     Uniqueness comes from the composite PK, not from a prior read, so two
//     concurrent double-taps cannot both succeed.
//
// Example:
//
//	repo.RecordSwipe(ctx, 1, 2, db.ActionLike) // user 1 liked user 2
func (r *SwipeRepository) RecordSwipe(
	ctx context.Context,
	swiperID, targetID uint64,
	action db.SwipeAction,
) (*db.Swipe, error) {
	if !action.Valid() {
		return nil, &ValidationError{Field: "action", Err: ErrInvalidAction}
	}
	if swiperID == targetID {
		return nil, &ValidationError{Field: "target_id", Err: ErrSelfAction}
	}

	exists, err := userExists(ctx, r.db, targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTargetNotFound
	}

	swipe := db.Swipe{
		SwiperID: swiperID,
		TargetID: targetID,
		Action:   action,
	}
	if err := r.db.WithContext(ctx).Create(&swipe).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateSwipe
		}
		return nil, err
	}
	return &swipe, nil
}

// GetSwipe returns the swipe swiper -> target, or gorm.ErrRecordNotFound.
func (r *SwipeRepository) GetSwipe(ctx context.Context, swiperID, targetID uint64) (*db.Swipe, error) {
	var s db.Swipe
	err := r.db.WithContext(ctx).
		Where("swiper_id = ? AND target_id = ?", swiperID, targetID).
		Take(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// HasLiked checks whether swiper has liked target.
//
// Directional: HasLiked(a, b) says nothing about HasLiked(b, a).
//
// Example:
//
//	repo.HasLiked(ctx, 1, 2) // -> true if user 1 liked user 2
func (r *SwipeRepository) HasLiked(
	ctx context.Context,
	swiperID, targetID uint64,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.swiper_id = ? AND s.target_id = ? AND s.action = ?", swiperID, targetID, db.ActionLike).
		Count(&count).Error
	return count > 0, err
}

// LikersAmong returns which of the given users have liked target.
// One query for a whole feed page instead of one HasLiked per candidate.
func (r *SwipeRepository) LikersAmong(
	ctx context.Context,
	targetID uint64,
	swiperIDs []uint64,
) (map[uint64]bool, error) {
	likers := make(map[uint64]bool, len(swiperIDs))
	if len(swiperIDs) == 0 {
		return likers, nil
	}

	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("target_id = ? AND action = ? AND swiper_id IN ?", targetID, db.ActionLike, swiperIDs).
		Pluck("swiper_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		likers[id] = true
	}
	return likers, nil
}

// GetLikers returns all users who liked the given recipient.
//
// Behavior:
//   - Only swipes where target_id = X and action = like are returned.
//   - Excludes users that the recipient explicitly passed.
//   - Excludes users blocked in either direction.
//   - Ordered by created_at DESC, swiper_id DESC.
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.GetLikers(ctx, 42, nil, 20) // list first 20 people who liked user 42
func (r *SwipeRepository) GetLikers(
	ctx context.Context,
	recipientID uint64,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	query := r.likersQuery(ctx, recipientID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s2
				WHERE s2.swiper_id = ?
				  AND s2.target_id = s.swiper_id
				  AND s2.action = ?
			)`, recipientID, db.ActionPass)

	return r.page(query, paginationToken, limit)
}

// GetNewLikers returns users who liked the recipient and whom the recipient
// has not swiped on yet, i.e. not matched and not passed.
//
// Example:
//
//	repo.GetNewLikers(ctx, 42, nil, 20) // list first 20 pending likes for user 42
func (r *SwipeRepository) GetNewLikers(
	ctx context.Context,
	recipientID uint64,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	query := r.likersQuery(ctx, recipientID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s2
				WHERE s2.swiper_id = ?
				  AND s2.target_id = s.swiper_id
			)`, recipientID)

	return r.page(query, paginationToken, limit)
}

// CountLikers returns how many users liked the given recipient, with the same
// exclusions as GetLikers. Used behind the Redis cache (DB is fallback).
//
// Example:
//
//	repo.CountLikers(ctx, 42) // -> 123
func (r *SwipeRepository) CountLikers(
	ctx context.Context,
	recipientID uint64,
) (int64, error) {
	var count int64
	err := r.likersQuery(ctx, recipientID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s2
				WHERE s2.swiper_id = ?
				  AND s2.target_id = s.swiper_id
				  AND s2.action = ?
			)`, recipientID, db.ActionPass).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SwipeRepository) likersQuery(ctx context.Context, recipientID uint64) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.target_id = ? AND s.action = ?", recipientID, db.ActionLike).
		Where(notBlockedSQL("s.swiper_id"), recipientID, recipientID)
}

// page applies the cursor, fetches limit+1 rows and builds the next token.
func (r *SwipeRepository) page(query *gorm.DB, paginationToken *string, limit int) ([]db.Swipe, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	if !cursor.IsZero() {
		ts := time.UnixMilli(cursor.CreatedUnix).UTC()
		query = query.Where(
			"(s.created_at < ? OR (s.created_at = ? AND s.swiper_id < ?))",
			ts, ts, cursor.SwiperID,
		)
	}

	var swipes []db.Swipe
	err = query.
		Select("s.*").
		Order("s.created_at DESC, s.swiper_id DESC").
		Limit(limit + 1).
		Find(&swipes).Error
	if err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(swipes) > limit {
		last := swipes[limit-1]
		token, err := pagination.Encode(pagination.Cursor{
			SwiperID:    last.SwiperID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		if err != nil {
			return nil, nil, err
		}
		nextToken = &token
		swipes = swipes[:limit]
	}

	return swipes, nextToken, nil
}

// notBlockedSQL excludes rows whose user column is blocked by, or has blocked,
// the viewer. Takes the viewer id twice.
func notBlockedSQL(userColumn string) string {
	return `
		NOT EXISTS (
			SELECT 1 FROM blocks b
			WHERE (b.blocker_id = ? AND b.blocked_id = ` + userColumn + `)
			   OR (b.blocker_id = ` + userColumn + ` AND b.blocked_id = ?)
		)`
}

func userExists(ctx context.Context, database *gorm.DB, userID uint64) (bool, error) {
	var count int64
	err := database.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
