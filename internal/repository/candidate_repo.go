package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-match/internal/db"
)

// CandidateRepository builds the hard-filter query behind discovery.
type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(database *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: database}
}

// EligibleQuery returns the declarative candidate query for forUser. It only
// reads. Every predicate is a conjunct, so their order does not matter:
//
//  1. not forUser
//  2. not already swiped by forUser (like or pass)
//  3. no block in either direction
//  4. candidate profile complete, with the same blank rules as
//     db.Profile.IsComplete
//  5. candidate gender fits forUser's preference, and forUser's gender fits
//     the candidate's preference ("any" matches everything on either side)
//
// An incomplete forUser has no gender or preference to filter by; the
// returned query then carries ErrIncompleteProfile and runs nothing.
func (r *CandidateRepository) EligibleQuery(ctx context.Context, forUser *db.Profile) *gorm.DB {
	q := r.db.WithContext(ctx)
	if !forUser.IsComplete() {
		_ = q.AddError(ErrIncompleteProfile)
		return q
	}

	q = q.Table("profiles p").
		Where("p.user_id <> ?", forUser.UserID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s
				WHERE s.swiper_id = ?
				  AND s.target_id = p.user_id
			)`, forUser.UserID).
		Where(notBlockedSQL("p.user_id"), forUser.UserID, forUser.UserID).
		Where("p.profile_picture IS NOT NULL AND TRIM(p.profile_picture) <> ''").
		Where("p.first_name IS NOT NULL AND TRIM(p.first_name) <> ''").
		Where("p.birthdate IS NOT NULL").
		Where("p.gender IS NOT NULL AND p.gender <> ''").
		Where("p.preferred_gender IS NOT NULL AND p.preferred_gender <> ''")

	if pref := *forUser.PreferredGender; pref != db.PreferAny {
		q = q.Where("p.gender = ?", string(pref))
	}
	q = q.Where("(p.preferred_gender = ? OR p.preferred_gender = ?)", string(db.PreferAny), string(*forUser.Gender))

	return q
}

// EligibleCandidates runs EligibleQuery, ordered by user id so repeated calls
// without writes in between return the same slice.
func (r *CandidateRepository) EligibleCandidates(ctx context.Context, forUser *db.Profile) ([]db.Profile, error) {
	if !forUser.IsComplete() {
		return nil, ErrIncompleteProfile
	}

	var candidates []db.Profile
	err := r.EligibleQuery(ctx, forUser).
		Select("p.*").
		Order("p.user_id").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}
