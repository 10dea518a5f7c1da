package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-match/internal/db"
	"github.com/oggyb/muzz-match/internal/testutil"
)

func TestPreferredGenderAccepts(t *testing.T) {
	assert.True(t, db.PreferAny.Accepts(db.GenderNonBinary))
	assert.True(t, db.PreferFemale.Accepts(db.GenderFemale))
	assert.False(t, db.PreferFemale.Accepts(db.GenderMale))
}

func TestProfileIsComplete(t *testing.T) {
	name, pic, blank := "Ada", "a.jpg", "  "
	birth := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	g, pref := db.GenderFemale, db.PreferAny

	complete := db.Profile{FirstName: &name, ProfilePicture: &pic, Birthdate: &birth, Gender: &g, PreferredGender: &pref}
	assert.True(t, complete.IsComplete())

	noPic := complete
	noPic.ProfilePicture = &blank
	assert.False(t, noPic.IsComplete())

	noBirth := complete
	noBirth.Birthdate = nil
	assert.False(t, noBirth.IsComplete())

	var nilProfile *db.Profile
	assert.False(t, nilProfile.IsComplete())
}

func TestProfileAgeAt(t *testing.T) {
	birth := time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)
	p := db.Profile{Birthdate: &birth}

	age, ok := p.AgeAt(time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 24, age)

	age, _ = p.AgeAt(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 25, age)

	_, ok = (&db.Profile{}).AgeAt(time.Now())
	assert.False(t, ok)
}

func TestMatchOther(t *testing.T) {
	m := db.Match{UserAID: 3, UserBID: 7}
	assert.Equal(t, uint64(7), m.Other(3))
	assert.Equal(t, uint64(3), m.Other(7))
}

func TestSeedMinimalTestData(t *testing.T) {
	gdb := testutil.NewDB(t)

	// twice: reseeding wipes first
	require.NoError(t, db.SeedMinimalTestData(gdb))
	require.NoError(t, db.SeedMinimalTestData(gdb))

	var users, swipes, matches, conversations int64
	require.NoError(t, gdb.Model(&db.User{}).Count(&users).Error)
	require.NoError(t, gdb.Model(&db.Swipe{}).Count(&swipes).Error)
	require.NoError(t, gdb.Model(&db.Match{}).Count(&matches).Error)
	require.NoError(t, gdb.Model(&db.Conversation{}).Count(&conversations).Error)

	assert.Equal(t, int64(3), users)
	assert.Equal(t, int64(4), swipes)
	assert.Equal(t, int64(1), matches)
	assert.Equal(t, int64(1), conversations)
}
