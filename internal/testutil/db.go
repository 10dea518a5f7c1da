// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/muzz-match/internal/db"
)

// NewDB opens an isolated in-memory DB for the test and migrates it. A single
// connection serializes transactions the way row locks would on a real server.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

type ProfileOpt func(*db.Profile)

func WithPref(p db.PreferredGender) ProfileOpt {
	return func(pr *db.Profile) { pr.PreferredGender = &p }
}

func WithoutPicture() ProfileOpt {
	return func(pr *db.Profile) { pr.ProfilePicture = nil }
}

func WithFirstName(name string) ProfileOpt {
	return func(pr *db.Profile) { pr.FirstName = &name }
}

func WithCountry(c string) ProfileOpt {
	return func(pr *db.Profile) { pr.Country = &c }
}

func WithInterests(items ...string) ProfileOpt {
	return func(pr *db.Profile) { pr.Interests = items }
}

// CreateUser inserts a user with a complete profile of the given gender.
func CreateUser(t *testing.T, database *gorm.DB, id uint64, gender db.Gender, pref db.PreferredGender, opts ...ProfileOpt) db.Profile {
	t.Helper()

	require.NoError(t, database.Create(&db.User{
		ID:           id,
		Username:     fmt.Sprintf("user%d", id),
		Email:        fmt.Sprintf("u%d@test.com", id),
		PasswordHash: "x",
	}).Error)

	name := fmt.Sprintf("User%d", id)
	pic := fmt.Sprintf("%d.jpg", id)
	birth := time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC)
	p := db.Profile{
		UserID:          id,
		FirstName:       &name,
		ProfilePicture:  &pic,
		Birthdate:       &birth,
		Gender:          &gender,
		PreferredGender: &pref,
	}
	for _, o := range opts {
		o(&p)
	}
	require.NoError(t, database.Create(&p).Error)
	return p
}

// IDs returns the user ids of profiles in order.
func IDs(profiles []db.Profile) []uint64 {
	out := make([]uint64, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.UserID)
	}
	return out
}
