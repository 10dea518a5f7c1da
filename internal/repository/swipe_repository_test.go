package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-match/internal/db"
	"github.com/oggyb/muzz-match/internal/repository"
)

func TestRecordSwipe(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)
	createUser(t, dbase, 1, db.GenderMale, db.PreferFemale)
	createUser(t, dbase, 2, db.GenderFemale, db.PreferMale)

	swipe, err := repo.RecordSwipe(ctx, 1, 2, db.ActionLike)
	require.NoError(t, err)
	assert.Equal(t, db.ActionLike, swipe.Action)
	assert.False(t, swipe.CreatedAt.IsZero())
}

func TestRecordSwipe_DuplicateKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)
	createUser(t, dbase, 1, db.GenderMale, db.PreferFemale)
	createUser(t, dbase, 2, db.GenderFemale, db.PreferMale)

	_, err := repo.RecordSwipe(ctx, 1, 2, db.ActionLike)
	require.NoError(t, err)

	for _, action := range []db.SwipeAction{db.ActionLike, db.ActionPass} {
		_, err = repo.RecordSwipe(ctx, 1, 2, action)
		assert.ErrorIs(t, err, repository.ErrDuplicateSwipe)
	}

	stored, err := repo.GetSwipe(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, db.ActionLike, stored.Action)

	// the reverse direction is a different pair
	_, err = repo.RecordSwipe(ctx, 2, 1, db.ActionPass)
	assert.NoError(t, err)
}

func TestRecordSwipe_Validation(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)
	createUser(t, dbase, 1, db.GenderMale, db.PreferFemale)

	_, err := repo.RecordSwipe(ctx, 1, 2, db.SwipeAction("superlike"))
	assert.ErrorIs(t, err, repository.ErrInvalidAction)
	var verr *repository.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "action", verr.Field)

	_, err = repo.RecordSwipe(ctx, 1, 1, db.ActionLike)
	assert.ErrorIs(t, err, repository.ErrSelfAction)

	_, err = repo.RecordSwipe(ctx, 1, 99, db.ActionLike)
	assert.ErrorIs(t, err, repository.ErrTargetNotFound)
}

func TestRecordSwipe_ConcurrentDoubleTap(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)
	createUser(t, dbase, 1, db.GenderMale, db.PreferFemale)
	createUser(t, dbase, 2, db.GenderFemale, db.PreferMale)

	const taps = 5
	errs := make([]error, taps)
	var wg sync.WaitGroup
	for i := 0; i < taps; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.RecordSwipe(ctx, 1, 2, db.ActionLike)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, repository.ErrDuplicateSwipe)
	}
	assert.Equal(t, 1, ok)

	var count int64
	require.NoError(t, dbase.Model(&db.Swipe{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHasLiked_IsDirectional(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)
	createUser(t, dbase, 1, db.GenderMale, db.PreferFemale)
	createUser(t, dbase, 2, db.GenderFemale, db.PreferMale)
	createUser(t, dbase, 3, db.GenderFemale, db.PreferMale)

	_, err := repo.RecordSwipe(ctx, 1, 2, db.ActionLike)
	require.NoError(t, err)
	_, err = repo.RecordSwipe(ctx, 1, 3, db.ActionPass)
	require.NoError(t, err)

	liked, err := repo.HasLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = repo.HasLiked(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, liked)

	liked, err = repo.HasLiked(ctx, 1, 3)
	require.NoError(t, err)
	assert.False(t, liked, "a pass is not a like")
}

func TestLikersAmong(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)
	createUser(t, dbase, 1, db.GenderMale, db.PreferFemale)
	createUser(t, dbase, 2, db.GenderFemale, db.PreferMale)
	createUser(t, dbase, 3, db.GenderFemale, db.PreferMale)
	createUser(t, dbase, 4, db.GenderFemale, db.PreferMale)

	_, _ = repo.RecordSwipe(ctx, 2, 1, db.ActionLike)
	_, _ = repo.RecordSwipe(ctx, 3, 1, db.ActionPass)
	_, _ = repo.RecordSwipe(ctx, 4, 1, db.ActionLike)

	likers, err := repo.LikersAmong(ctx, 1, []uint64{2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[uint64]bool{2: true}, likers)

	empty, err := repo.LikersAmong(ctx, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetLikersAndPagination(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)
	createUser(t, dbase, 99, db.GenderFemale, db.PreferAny)
	for id := uint64(1); id <= 5; id++ {
		createUser(t, dbase, id, db.GenderMale, db.PreferFemale)
	}

	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)
	for id := uint64(1); id <= 4; id++ {
		require.NoError(t, dbase.Create(&db.Swipe{
			SwiperID:  id,
			TargetID:  99,
			Action:    db.ActionLike,
			CreatedAt: base.Add(time.Duration(id) * time.Minute),
		}).Error)
	}
	// recipient passed actor 2 → exclude
	_, err := repo.RecordSwipe(ctx, 99, 2, db.ActionPass)
	require.NoError(t, err)
	// actor 5 liked, but is blocked by the recipient → exclude
	_, err = repo.RecordSwipe(ctx, 5, 99, db.ActionLike)
	require.NoError(t, err)
	require.NoError(t, repository.NewBlockRepository(dbase).Block(ctx, 99, 5))

	page1, next, err := repo.GetLikers(ctx, 99, nil, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, uint64(4), page1[0].SwiperID)
	assert.Equal(t, uint64(3), page1[1].SwiperID)
	require.NotNil(t, next)

	page2, next, err := repo.GetLikers(ctx, 99, next, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, uint64(1), page2[0].SwiperID)
	assert.Nil(t, next)

	count, err := repo.CountLikers(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGetLikers_BadToken(t *testing.T) {
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	bad := "!!!"
	_, _, err := repo.GetLikers(context.Background(), 1, &bad, 5)
	assert.Error(t, err)
}

func TestGetNewLikers(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)
	createUser(t, dbase, 99, db.GenderFemale, db.PreferAny)
	createUser(t, dbase, 1, db.GenderMale, db.PreferFemale)
	createUser(t, dbase, 2, db.GenderMale, db.PreferFemale)

	// actor 1 liked 99, and 99 liked back → mutual, not new
	_, _ = repo.RecordSwipe(ctx, 1, 99, db.ActionLike)
	_, _ = repo.RecordSwipe(ctx, 99, 1, db.ActionLike)

	// actor 2 liked 99, no answer yet
	_, _ = repo.RecordSwipe(ctx, 2, 99, db.ActionLike)

	swipes, _, err := repo.GetNewLikers(ctx, 99, nil, 10)
	require.NoError(t, err)
	require.Len(t, swipes, 1)
	assert.Equal(t, uint64(2), swipes[0].SwiperID)
}
