package db

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Gender is the gender a profile declares.
type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "non_binary"
)

// PreferredGender is the gender a profile wants to see. PreferAny is the wildcard.
type PreferredGender string

const (
	PreferMale      PreferredGender = "male"
	PreferFemale    PreferredGender = "female"
	PreferNonBinary PreferredGender = "non_binary"
	PreferAny       PreferredGender = "any"
)

// Accepts reports whether a candidate of gender g satisfies this preference.
func (p PreferredGender) Accepts(g Gender) bool {
	return p == PreferAny || string(p) == string(g)
}

// SwipeAction is the direction of a swipe.
type SwipeAction string

const (
	ActionLike SwipeAction = "like"
	ActionPass SwipeAction = "pass"
)

func (a SwipeAction) Valid() bool {
	return a == ActionLike || a == ActionPass
}

// ReligionUndisclosed is the explicit "prefer not to say" answer.
const ReligionUndisclosed = "prefer_not_to_say"

// User table
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"default:true"`
	LastLoginAt  time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Profile is one-to-one with User. Nullable columns are pointers so that
// "unset" stays distinguishable from a zero value.
type Profile struct {
	UserID           uint64 `gorm:"primaryKey;autoIncrement:false"`
	FirstName        *string `gorm:"size:64"`
	ProfilePicture   *string `gorm:"size:255"`
	Birthdate        *time.Time
	Gender           *Gender          `gorm:"size:16;index:idx_profile_gender_pref,priority:1"`
	PreferredGender  *PreferredGender `gorm:"size:16;index:idx_profile_gender_pref,priority:2"`
	PreferredAgeMin  *int
	PreferredAgeMax  *int
	Country          *string `gorm:"size:2"`
	PreferredCountry *string `gorm:"size:2"`
	Interests        datatypes.JSONSlice[string]
	Languages        datatypes.JSONSlice[string]
	Religion         *string   `gorm:"size:32"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

// IsComplete reports whether the profile can take part in discovery, either
// as the viewer or as a candidate. It is never cached.
func (p *Profile) IsComplete() bool {
	if p == nil {
		return false
	}
	return nonEmpty(p.ProfilePicture) &&
		nonEmpty(p.FirstName) &&
		p.Birthdate != nil &&
		p.Gender != nil && *p.Gender != "" &&
		p.PreferredGender != nil && *p.PreferredGender != ""
}

// AgeAt returns the whole-year age at t, or false when birthdate is unset.
func (p *Profile) AgeAt(t time.Time) (int, bool) {
	if p == nil || p.Birthdate == nil {
		return 0, false
	}
	b := p.Birthdate.UTC()
	t = t.UTC()
	age := t.Year() - b.Year()
	if t.Month() < b.Month() || (t.Month() == b.Month() && t.Day() < b.Day()) {
		age--
	}
	return age, true
}

// nonEmpty treats space-only values as empty. It trims spaces only, like SQL
// TRIM, so the candidate query agrees with IsComplete.
func nonEmpty(s *string) bool {
	return s != nil && strings.Trim(*s, " ") != ""
}

// Swipe is a directed like/pass decision.
//
// Composite PK: (SwiperID, TargetID)
//   - At most one swipe per ordered pair; a second insert is a duplicate-key error.
//
// Indexes:
//   - idx_target_action_created(target_id, action, created_at DESC, swiper_id)
//     Serves "who liked me" lists and the feed's reverse-like lookup.
type Swipe struct {
	SwiperID  uint64      `gorm:"primaryKey;autoIncrement:false"`
	TargetID  uint64      `gorm:"primaryKey;autoIncrement:false;index:idx_target_action_created,priority:1"`
	Action    SwipeAction `gorm:"size:8;not null;index:idx_target_action_created,priority:2"`
	CreatedAt time.Time   `gorm:"autoCreateTime;index:idx_target_action_created,priority:3,sort:desc"`
}

// Block hides two users from each other in both directions.
type Block struct {
	BlockerID uint64    `gorm:"primaryKey;autoIncrement:false"`
	BlockedID uint64    `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Match is a mutual like stored as a normalized pair, UserAID < UserBID.
// The unique index on the pair is what makes creation happen exactly once.
type Match struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserAID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	UserBID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:2;index"`
	MatchedAt time.Time `gorm:"not null"`
}

// Other returns the participant that is not userID.
func (m *Match) Other(userID uint64) uint64 {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// Conversation belongs to exactly one Match and is created with it.
type Conversation struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	MatchID   uint64    `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{&User{}, &Profile{}, &Swipe{}, &Block{}, &Match{}, &Conversation{}}
}
