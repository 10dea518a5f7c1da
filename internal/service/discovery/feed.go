// Package discovery builds the ranked "who do I show next" feed.
package discovery

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/oggyb/muzz-match/internal/db"
	"github.com/oggyb/muzz-match/internal/logger"
	"github.com/oggyb/muzz-match/internal/metrics"
	"github.com/oggyb/muzz-match/internal/repository"
	"github.com/oggyb/muzz-match/internal/scoring"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type CandidateSource interface {
	EligibleCandidates(ctx context.Context, forUser *db.Profile) ([]db.Profile, error)
}

type LikeLookup interface {
	LikersAmong(ctx context.Context, targetID uint64, swiperIDs []uint64) (map[uint64]bool, error)
}

type ProfileLoader interface {
	GetByUserID(ctx context.Context, userID uint64) (*db.Profile, error)
}

// Candidate is one ranked feed entry.
type Candidate struct {
	Profile  db.Profile
	Score    float64
	LikedYou bool
}

// Limits bounds feed page sizes.
type Limits struct {
	Default int
	Max     int
}

type Feed struct {
	candidates CandidateSource
	likes      LikeLookup
	profiles   ProfileLoader
	scorer     *scoring.Scorer
	limits     Limits
	log        *slog.Logger
}

func NewFeed(candidates CandidateSource, likes LikeLookup, profiles ProfileLoader, scorer *scoring.Scorer, limits Limits, log *slog.Logger) *Feed {
	if limits.Default <= 0 {
		limits.Default = DefaultLimit
	}
	if limits.Max <= 0 {
		limits.Max = MaxLimit
	}
	if limits.Default > limits.Max {
		limits.Default = limits.Max
	}
	if scorer == nil {
		scorer = scoring.New()
	}
	if log == nil {
		log = logger.L()
	}
	return &Feed{
		candidates: candidates,
		likes:      likes,
		profiles:   profiles,
		scorer:     scorer,
		limits:     limits,
		log:        log,
	}
}

// GetFeed filters, scores and ranks candidates for forUser, most recommended
// first. The feed is recomputed on every call. No candidates is an empty
// slice, not an error.
//
// limit <= 0 uses the default page size; larger values are capped.
func (f *Feed) GetFeed(ctx context.Context, forUser *db.Profile, limit int) ([]Candidate, error) {
	start := time.Now()

	pool, err := f.candidates.EligibleCandidates(ctx, forUser)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		metrics.RecordFeed(0, time.Since(start))
		return []Candidate{}, nil
	}

	ids := make([]uint64, len(pool))
	for i := range pool {
		ids[i] = pool[i].UserID
	}
	likedYou, err := f.likes.LikersAmong(ctx, forUser.UserID, ids)
	if err != nil {
		return nil, err
	}

	ranked := make([]Candidate, len(pool))
	for i := range pool {
		liked := likedYou[pool[i].UserID]
		ranked[i] = Candidate{
			Profile:  pool[i],
			Score:    f.scorer.Score(forUser, &pool[i], liked),
			LikedYou: liked,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if n := f.clamp(limit); len(ranked) > n {
		ranked = ranked[:n]
	}

	metrics.RecordFeed(len(pool), time.Since(start))
	f.log.Debug("feed built", "user", forUser.UserID, "pool", len(pool), "returned", len(ranked))
	return ranked, nil
}

// GetFeedForUser loads the user's profile and builds their feed.
func (f *Feed) GetFeedForUser(ctx context.Context, userID uint64, limit int) ([]Candidate, error) {
	p, err := f.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.IsComplete() {
		return nil, repository.ErrIncompleteProfile
	}
	return f.GetFeed(ctx, p, limit)
}

func (f *Feed) clamp(limit int) int {
	switch {
	case limit <= 0:
		return f.limits.Default
	case limit > f.limits.Max:
		return f.limits.Max
	default:
		return limit
	}
}
