package matching_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/muzz-match/internal/cache"
	"github.com/oggyb/muzz-match/internal/db"
	"github.com/oggyb/muzz-match/internal/events"
	"github.com/oggyb/muzz-match/internal/logger"
	"github.com/oggyb/muzz-match/internal/repository"
	"github.com/oggyb/muzz-match/internal/service/matching"
	"github.com/oggyb/muzz-match/internal/testutil"
)

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, events.MatchEvent) error {
	f.calls++
	return errors.New("broker unavailable")
}

func (f *failingPublisher) Transport() string { return "failing" }

func newService(t *testing.T, gdb *gorm.DB, opts ...matching.Option) *matching.Service {
	t.Helper()
	opts = append([]matching.Option{
		matching.WithLogger(logger.Discard()),
		matching.WithProfiles(repository.NewProfileRepository(gdb)),
	}, opts...)
	return matching.New(
		repository.NewSwipeRepository(gdb),
		repository.NewMatchRepository(gdb),
		repository.NewBlockRepository(gdb),
		opts...,
	)
}

func countRows(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}

func TestMutualLikeCreatesMatch(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	a := testutil.CreateUser(t, gdb, 1, db.GenderMale, db.PreferFemale)
	testutil.CreateUser(t, gdb, 2, db.GenderFemale, db.PreferMale)

	hub := events.NewHub()
	watchA, cancelA := hub.Subscribe(1)
	defer cancelA()
	watchB, cancelB := hub.Subscribe(2)
	defer cancelB()
	svc := newService(t, gdb, matching.WithPublisher(hub))

	pool, err := repository.NewCandidateRepository(gdb).EligibleCandidates(ctx, &a)
	require.NoError(t, err)
	assert.Contains(t, testutil.IDs(pool), uint64(2))

	res, err := svc.Swipe(ctx, 1, 2, db.ActionLike)
	require.NoError(t, err)
	assert.Nil(t, res.Match)

	mutual, err := svc.HasReciprocalLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, mutual)

	mutual, err = svc.HasReciprocalLike(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, mutual)

	res, err = svc.Swipe(ctx, 2, 1, db.ActionLike)
	require.NoError(t, err)
	require.NotNil(t, res.Match)
	assert.True(t, res.Match.Created)
	assert.Equal(t, uint64(1), res.Match.Match.UserAID)
	assert.Equal(t, uint64(2), res.Match.Match.UserBID)
	assert.Equal(t, res.Match.Match.ID, res.Match.Conversation.MatchID)

	assert.Equal(t, int64(1), countRows(t, gdb, &db.Match{}))
	assert.Equal(t, int64(1), countRows(t, gdb, &db.Conversation{}))

	for _, ch := range []<-chan events.MatchEvent{watchA, watchB} {
		select {
		case ev := <-ch:
			assert.Equal(t, res.Match.Match.ID, ev.MatchID)
			assert.Equal(t, res.Match.Conversation.ID, ev.ConversationID)
		case <-time.After(time.Second):
			t.Fatal("participant did not receive the match event")
		}
	}
}

func TestPassNeverMatches(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	testutil.CreateUser(t, gdb, 1, db.GenderMale, db.PreferFemale)
	testutil.CreateUser(t, gdb, 2, db.GenderFemale, db.PreferMale)
	svc := newService(t, gdb)

	_, err := svc.Swipe(ctx, 1, 2, db.ActionLike)
	require.NoError(t, err)
	res, err := svc.Swipe(ctx, 2, 1, db.ActionPass)
	require.NoError(t, err)
	assert.Nil(t, res.Match)
	assert.Zero(t, countRows(t, gdb, &db.Match{}))
}

func TestConcurrentMutualCheckIsBenign(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	testutil.CreateUser(t, gdb, 1, db.GenderMale, db.PreferFemale)
	testutil.CreateUser(t, gdb, 2, db.GenderFemale, db.PreferMale)
	svc := newService(t, gdb)

	// both likes committed before either side ran its mutual check
	require.NoError(t, gdb.Create(&db.Swipe{SwiperID: 1, TargetID: 2, Action: db.ActionLike}).Error)
	require.NoError(t, gdb.Create(&db.Swipe{SwiperID: 2, TargetID: 1, Action: db.ActionLike}).Error)

	var (
		wg      sync.WaitGroup
		results [2]*matching.MatchResult
		errs    [2]error
	)
	for i, pair := range [][2]uint64{{1, 2}, {2, 1}} {
		wg.Add(1)
		go func(i int, swiper, target uint64) {
			defer wg.Done()
			results[i], errs[i] = svc.CheckAndCreateMatchIfMutual(ctx, swiper, target)
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.NotEqual(t, results[0].Created, results[1].Created, "exactly one caller creates the match")
	assert.Equal(t, results[0].Match.ID, results[1].Match.ID)
	assert.Equal(t, results[0].Conversation.ID, results[1].Conversation.ID)

	assert.Equal(t, int64(1), countRows(t, gdb, &db.Match{}))
	assert.Equal(t, int64(1), countRows(t, gdb, &db.Conversation{}))
}

func TestCreateMatchDirectDuplicateIsAnError(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	testutil.CreateUser(t, gdb, 1, db.GenderMale, db.PreferFemale)
	testutil.CreateUser(t, gdb, 2, db.GenderFemale, db.PreferMale)
	svc := newService(t, gdb)

	_, err := svc.CreateMatch(ctx, 2, 1)
	require.NoError(t, err)
	_, err = svc.CreateMatch(ctx, 1, 2)
	assert.ErrorIs(t, err, repository.ErrDuplicateMatch)
}

func TestPublishFailureDoesNotFailMatch(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	testutil.CreateUser(t, gdb, 1, db.GenderMale, db.PreferFemale)
	testutil.CreateUser(t, gdb, 2, db.GenderFemale, db.PreferMale)

	pub := &failingPublisher{}
	svc := newService(t, gdb, matching.WithPublisher(pub))

	res, err := svc.CreateMatch(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, int64(1), countRows(t, gdb, &db.Match{}))
}

func TestPublishOnlyOnCreation(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	testutil.CreateUser(t, gdb, 1, db.GenderMale, db.PreferFemale)
	testutil.CreateUser(t, gdb, 2, db.GenderFemale, db.PreferMale)

	pub := &failingPublisher{}
	svc := newService(t, gdb, matching.WithPublisher(pub))

	_, err := svc.CreateMatch(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.CreateMatch(ctx, 1, 2)
	require.Error(t, err)
	assert.Equal(t, 1, pub.calls, "a failed creation publishes nothing")
}

func TestSwipeErrors(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	testutil.CreateUser(t, gdb, 1, db.GenderMale, db.PreferFemale)
	testutil.CreateUser(t, gdb, 2, db.GenderFemale, db.PreferMale)
	testutil.CreateUser(t, gdb, 3, db.GenderFemale, db.PreferMale, testutil.WithoutPicture())
	svc := newService(t, gdb)

	_, err := svc.Swipe(ctx, 1, 2, db.SwipeAction("superlike"))
	assert.ErrorIs(t, err, repository.ErrInvalidAction)

	_, err = svc.Swipe(ctx, 1, 404, db.ActionLike)
	assert.ErrorIs(t, err, repository.ErrTargetNotFound)

	_, err = svc.Swipe(ctx, 3, 1, db.ActionLike)
	assert.ErrorIs(t, err, repository.ErrIncompleteProfile)

	_, err = svc.Swipe(ctx, 1, 2, db.ActionPass)
	require.NoError(t, err)
	_, err = svc.Swipe(ctx, 1, 2, db.ActionLike)
	assert.ErrorIs(t, err, repository.ErrDuplicateSwipe)
}

func TestBlockRemovesMatchAndCache(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	testutil.CreateUser(t, gdb, 1, db.GenderMale, db.PreferFemale)
	testutil.CreateUser(t, gdb, 2, db.GenderFemale, db.PreferMale)

	mr := miniredis.RunT(t)
	rc := &cache.RedisCache{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	defer rc.Close()
	svc := newService(t, gdb, matching.WithCache(rc))

	_, err := svc.CreateMatch(ctx, 1, 2)
	require.NoError(t, err)
	require.NoError(t, rc.SetLikeCount(ctx, 2, 9))

	require.NoError(t, svc.Block(ctx, 2, 1))
	assert.Zero(t, countRows(t, gdb, &db.Match{}))
	assert.Zero(t, countRows(t, gdb, &db.Conversation{}))
	assert.False(t, mr.Exists(cache.KeyForLikeCount(2)))

	// blocking again without a match is fine
	require.NoError(t, svc.Block(ctx, 2, 1))
}

func TestBlockedPairCannotSwipeOrMatch(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	testutil.CreateUser(t, gdb, 1, db.GenderMale, db.PreferFemale)
	testutil.CreateUser(t, gdb, 2, db.GenderFemale, db.PreferMale)
	svc := newService(t, gdb)

	require.NoError(t, svc.Block(ctx, 1, 2))

	// both directions are refused
	_, err := svc.Swipe(ctx, 2, 1, db.ActionLike)
	assert.ErrorIs(t, err, repository.ErrBlocked)
	_, err = svc.Swipe(ctx, 1, 2, db.ActionLike)
	assert.ErrorIs(t, err, repository.ErrBlocked)

	assert.Zero(t, countRows(t, gdb, &db.Swipe{}))
	assert.Zero(t, countRows(t, gdb, &db.Match{}))
	assert.Zero(t, countRows(t, gdb, &db.Conversation{}))
}

func TestBlockAfterLikeStopsMutualCheck(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	testutil.CreateUser(t, gdb, 1, db.GenderMale, db.PreferFemale)
	testutil.CreateUser(t, gdb, 2, db.GenderFemale, db.PreferMale)
	svc := newService(t, gdb)

	_, err := svc.Swipe(ctx, 1, 2, db.ActionLike)
	require.NoError(t, err)
	_, err = svc.RecordSwipe(ctx, 2, 1, db.ActionLike)
	require.NoError(t, err)
	require.NoError(t, svc.Block(ctx, 2, 1))

	res, err := svc.CheckAndCreateMatchIfMutual(ctx, 2, 1)
	assert.ErrorIs(t, err, repository.ErrBlocked)
	assert.Nil(t, res)
	assert.Zero(t, countRows(t, gdb, &db.Match{}))
}

func TestSwipeInvalidatesLikeCounts(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	testutil.CreateUser(t, gdb, 1, db.GenderMale, db.PreferFemale)
	testutil.CreateUser(t, gdb, 2, db.GenderFemale, db.PreferMale)

	mr := miniredis.RunT(t)
	rc := &cache.RedisCache{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	defer rc.Close()
	svc := newService(t, gdb, matching.WithCache(rc))

	require.NoError(t, rc.SetLikeCount(ctx, 2, 0))
	_, err := svc.RecordSwipe(ctx, 1, 2, db.ActionLike)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.KeyForLikeCount(2)))
}

func TestUnmatchAndListMatches(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	testutil.CreateUser(t, gdb, 1, db.GenderMale, db.PreferAny)
	testutil.CreateUser(t, gdb, 2, db.GenderFemale, db.PreferMale)
	testutil.CreateUser(t, gdb, 3, db.GenderFemale, db.PreferMale)
	svc := newService(t, gdb)

	_, err := svc.CreateMatch(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.CreateMatch(ctx, 1, 3)
	require.NoError(t, err)

	list, err := svc.ListMatches(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.Unmatch(ctx, 3, 1))
	assert.ErrorIs(t, svc.Unmatch(ctx, 3, 1), repository.ErrMatchNotFound)

	list, err = svc.ListMatches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint64(2), list[0].Other(1))
}
