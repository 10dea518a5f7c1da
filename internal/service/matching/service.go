// Package matching records swipes and turns mutual likes into matches.
package matching

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oggyb/muzz-match/internal/db"
	"github.com/oggyb/muzz-match/internal/events"
	"github.com/oggyb/muzz-match/internal/logger"
	"github.com/oggyb/muzz-match/internal/metrics"
	"github.com/oggyb/muzz-match/internal/repository"
)

type SwipeStore interface {
	RecordSwipe(ctx context.Context, swiperID, targetID uint64, action db.SwipeAction) (*db.Swipe, error)
	HasLiked(ctx context.Context, swiperID, targetID uint64) (bool, error)
}

type MatchStore interface {
	CreateMatch(ctx context.Context, userA, userB uint64) (*db.Match, *db.Conversation, error)
	FindByPair(ctx context.Context, userA, userB uint64) (*db.Match, *db.Conversation, error)
	DeleteMatch(ctx context.Context, userA, userB uint64) error
	ListForUser(ctx context.Context, userID uint64) ([]db.Match, error)
}

type BlockStore interface {
	Block(ctx context.Context, blockerID, blockedID uint64) error
	IsBlocked(ctx context.Context, a, b uint64) (bool, error)
}

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID uint64) (*db.Profile, error)
}

// LikeCountInvalidator drops cached "liked you" counters.
type LikeCountInvalidator interface {
	InvalidateLikeCount(ctx context.Context, userIDs ...uint64) error
}

// MatchResult is the outcome of a match attempt. Created is false when the
// pair was already matched, e.g. by a concurrent request.
type MatchResult struct {
	Match        *db.Match
	Conversation *db.Conversation
	Created      bool
}

// SwipeResult is what a single swipe produced.
type SwipeResult struct {
	Swipe *db.Swipe
	Match *MatchResult // nil unless the swipe completed a mutual like
}

type Service struct {
	swipes    SwipeStore
	matches   MatchStore
	blocks    BlockStore
	profiles  ProfileStore
	cache     LikeCountInvalidator
	publisher events.Publisher
	log       *slog.Logger
}

type Option func(*Service)

func WithCache(c LikeCountInvalidator) Option {
	return func(s *Service) { s.cache = c }
}

// WithProfiles makes Swipe refuse swipers whose profile is incomplete.
func WithProfiles(p ProfileStore) Option {
	return func(s *Service) { s.profiles = p }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func New(swipes SwipeStore, matches MatchStore, blocks BlockStore, opts ...Option) *Service {
	s := &Service{swipes: swipes, matches: matches, blocks: blocks}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logger.L()
	}
	return s
}

// RecordSwipe stores one swipe. It does not look for a match; callers that
// want that use Swipe or CheckAndCreateMatchIfMutual.
func (s *Service) RecordSwipe(ctx context.Context, swiperID, targetID uint64, action db.SwipeAction) (*db.Swipe, error) {
	swipe, err := s.swipes.RecordSwipe(ctx, swiperID, targetID, action)
	if err != nil {
		metrics.SwipeRejections.WithLabelValues(rejectReason(err)).Inc()
		s.log.Debug("swipe rejected", "swiper", swiperID, "target", targetID, "action", action, "err", err)
		return nil, err
	}
	metrics.SwipesRecorded.WithLabelValues(string(action)).Inc()

	// a like changes the target's count; a pass can hide the target from
	// the swiper's likers
	s.invalidate(ctx, swiperID, targetID)
	return swipe, nil
}

// HasReciprocalLike reports whether targetID has liked swiperID.
func (s *Service) HasReciprocalLike(ctx context.Context, swiperID, targetID uint64) (bool, error) {
	return s.swipes.HasLiked(ctx, targetID, swiperID)
}

// CreateMatch creates the match and its conversation, then publishes a
// match event to both participants. Publish failures never fail the call.
func (s *Service) CreateMatch(ctx context.Context, userA, userB uint64) (*MatchResult, error) {
	match, conv, err := s.matches.CreateMatch(ctx, userA, userB)
	if err != nil {
		return nil, err
	}
	metrics.MatchesCreated.Inc()
	s.log.Info("match created", "match_id", match.ID, "user_a", match.UserAID, "user_b", match.UserBID)

	s.publish(ctx, events.NewMatchEvent(match, conv))
	return &MatchResult{Match: match, Conversation: conv, Created: true}, nil
}

// CheckAndCreateMatchIfMutual creates a match when targetID has already
// liked swiperID. It returns nil without error when there is no reciprocal
// like. Losing a creation race to the other participant is not an error: the
// existing match is returned with Created=false. A blocked pair never
// matches (ErrBlocked).
func (s *Service) CheckAndCreateMatchIfMutual(ctx context.Context, swiperID, targetID uint64) (*MatchResult, error) {
	mutual, err := s.HasReciprocalLike(ctx, swiperID, targetID)
	if err != nil {
		return nil, err
	}
	if !mutual {
		return nil, nil
	}
	if err := s.checkNotBlocked(ctx, swiperID, targetID); err != nil {
		return nil, err
	}

	res, err := s.CreateMatch(ctx, swiperID, targetID)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, repository.ErrDuplicateMatch) {
		return nil, err
	}

	metrics.MatchConflicts.Inc()
	s.log.Debug("match already exists", "swiper", swiperID, "target", targetID)
	match, conv, ferr := s.matches.FindByPair(ctx, swiperID, targetID)
	if ferr != nil {
		return nil, errors.Join(err, ferr)
	}
	return &MatchResult{Match: match, Conversation: conv, Created: false}, nil
}

// Swipe records a swipe and, for a like, runs the mutual check. Swiping on
// a user blocked in either direction fails with ErrBlocked.
func (s *Service) Swipe(ctx context.Context, swiperID, targetID uint64, action db.SwipeAction) (*SwipeResult, error) {
	if s.profiles != nil {
		p, err := s.profiles.GetByUserID(ctx, swiperID)
		if err != nil {
			return nil, err
		}
		if !p.IsComplete() {
			return nil, repository.ErrIncompleteProfile
		}
	}
	if err := s.checkNotBlocked(ctx, swiperID, targetID); err != nil {
		metrics.SwipeRejections.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}

	swipe, err := s.RecordSwipe(ctx, swiperID, targetID, action)
	if err != nil {
		return nil, err
	}
	res := &SwipeResult{Swipe: swipe}
	if action != db.ActionLike {
		return res, nil
	}

	res.Match, err = s.CheckAndCreateMatchIfMutual(ctx, swiperID, targetID)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListMatches returns the user's matches, newest first.
func (s *Service) ListMatches(ctx context.Context, userID uint64) ([]db.Match, error) {
	return s.matches.ListForUser(ctx, userID)
}

// Unmatch deletes the pair's match and conversation.
func (s *Service) Unmatch(ctx context.Context, userID, otherID uint64) error {
	if err := s.matches.DeleteMatch(ctx, userID, otherID); err != nil {
		return err
	}
	metrics.Unmatches.Inc()
	s.log.Info("unmatched", "user", userID, "other", otherID)
	return nil
}

// Block records the block and removes any match between the two users.
func (s *Service) Block(ctx context.Context, blockerID, blockedID uint64) error {
	if err := s.blocks.Block(ctx, blockerID, blockedID); err != nil {
		return err
	}

	err := s.matches.DeleteMatch(ctx, blockerID, blockedID)
	switch {
	case err == nil:
		metrics.Unmatches.Inc()
	case !errors.Is(err, repository.ErrMatchNotFound):
		return err
	}

	s.invalidate(ctx, blockerID, blockedID)
	s.log.Info("user blocked", "blocker", blockerID, "blocked", blockedID)
	return nil
}

func (s *Service) publish(ctx context.Context, ev events.MatchEvent) {
	if s.publisher == nil {
		return
	}
	// the match is committed; a cancelled request must not cancel delivery
	if err := s.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Warn("match event publish failed", "event_id", ev.ID, "match_id", ev.MatchID, "err", err)
	}
}

func (s *Service) checkNotBlocked(ctx context.Context, a, b uint64) error {
	blocked, err := s.blocks.IsBlocked(ctx, a, b)
	if err != nil {
		return err
	}
	if blocked {
		s.log.Debug("blocked pair", "user", a, "other", b)
		return repository.ErrBlocked
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, userIDs ...uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateLikeCount(ctx, userIDs...); err != nil {
		s.log.Warn("like count invalidation failed", "users", userIDs, "err", err)
	}
}

func rejectReason(err error) string {
	var verr *repository.ValidationError
	switch {
	case errors.Is(err, repository.ErrDuplicateSwipe):
		return "duplicate"
	case errors.As(err, &verr):
		return "validation"
	case errors.Is(err, repository.ErrTargetNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrBlocked):
		return "blocked"
	default:
		return "error"
	}
}
