// Package scoring ranks discovery candidates with a weighted soft score.
//
// A score never excludes anyone. Hard eligibility lives in the candidate
// query; this package only orders what that query returns.
package scoring

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oggyb/muzz-match/internal/db"
)

// Factor weights. They sum to 1.0.
const (
	WeightAge        = 0.30
	WeightCountry    = 0.20
	WeightInterests  = 0.20
	WeightLanguages  = 0.10
	WeightReligion   = 0.10
	WeightFreshness  = 0.05
	WeightReciprocal = 0.05
)

// DefaultVariance is the half-width of the uniform noise added to each score.
const DefaultVariance = 0.10

const (
	defaultAgeMin = 18
	defaultAgeMax = 100
)

// RandomSource yields uniform floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

// lockedRand makes a *rand.Rand safe to share between goroutines.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// NewSeededSource returns a goroutine-safe RandomSource with a fixed seed.
func NewSeededSource(seed int64) RandomSource {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))} //nolint:gosec // ranking noise, not security
}

// Breakdown holds the individual sub-scores of a single comparison.
type Breakdown struct {
	Age        float64
	Country    float64
	Interests  float64
	Languages  float64
	Religion   float64
	Freshness  float64
	Reciprocal float64
}

// Weighted returns the weighted sum of the sub-scores, before noise.
func (b Breakdown) Weighted() float64 {
	return b.Age*WeightAge +
		b.Country*WeightCountry +
		b.Interests*WeightInterests +
		b.Languages*WeightLanguages +
		b.Religion*WeightReligion +
		b.Freshness*WeightFreshness +
		b.Reciprocal*WeightReciprocal
}

// Scorer computes candidate scores. It holds no ranking state and is safe
// for concurrent use.
type Scorer struct {
	rnd      RandomSource
	variance float64
	now      func() time.Time
}

type Option func(*Scorer)

// WithRandomSource replaces the noise source, e.g. with a seeded one in tests.
func WithRandomSource(src RandomSource) Option {
	return func(s *Scorer) { s.rnd = src }
}

// WithVariance sets the noise half-width. Zero disables noise.
func WithVariance(v float64) Option {
	return func(s *Scorer) { s.variance = math.Abs(v) }
}

// WithClock sets the time used for age and freshness.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) { s.now = now }
}

func New(opts ...Option) *Scorer {
	s := &Scorer{
		rnd:      NewSeededSource(time.Now().UnixNano()),
		variance: DefaultVariance,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Score returns the candidate's score for user in [0, 1], noise included.
func (s *Scorer) Score(user, candidate *db.Profile, candidateLikedUser bool) float64 {
	total := s.Breakdown(user, candidate, candidateLikedUser).Weighted() + s.noise()
	return clamp(total)
}

// Breakdown returns the deterministic sub-scores behind Score.
func (s *Scorer) Breakdown(user, candidate *db.Profile, candidateLikedUser bool) Breakdown {
	now := s.now()
	b := Breakdown{
		Age:       ageFit(user, candidate, now),
		Country:   countryFit(user, candidate),
		Interests: interestOverlap(interests(user), interests(candidate)),
		Languages: languageOverlap(languages(user), languages(candidate)),
		Religion:  religionFit(user, candidate),
		Freshness: freshness(candidate, now),
	}
	if candidateLikedUser {
		b.Reciprocal = 1.0
	}
	return b
}

func (s *Scorer) noise() float64 {
	if s.variance == 0 || s.rnd == nil {
		return 0
	}
	return (s.rnd.Float64()*2 - 1) * s.variance
}

// ageFit is 1 inside the viewer's preferred range, 0.7 up to five years
// outside it, then falls linearly to 0 at ten years outside.
func ageFit(user, candidate *db.Profile, now time.Time) float64 {
	age, ok := candidate.AgeAt(now)
	if !ok {
		return 0
	}

	lo, hi := defaultAgeMin, defaultAgeMax
	if user != nil && user.PreferredAgeMin != nil {
		lo = *user.PreferredAgeMin
	}
	if user != nil && user.PreferredAgeMax != nil {
		hi = *user.PreferredAgeMax
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	var off int
	switch {
	case age < lo:
		off = lo - age
	case age > hi:
		off = age - hi
	default:
		return 1.0
	}

	switch {
	case off <= 5:
		return 0.7
	case off >= 10:
		return 0
	default:
		return 0.7 * float64(10-off) / 5
	}
}

// countryFit compares the viewer's preferred country, or their own country
// when no preference is set, with the candidate's country.
func countryFit(user, candidate *db.Profile) float64 {
	var want string
	if user != nil {
		want = str(user.PreferredCountry)
		if want == "" {
			want = str(user.Country)
		}
	}
	var have string
	if candidate != nil {
		have = str(candidate.Country)
	}
	if want == "" || have == "" {
		return 0.5
	}
	if strings.EqualFold(want, have) {
		return 1.0
	}
	return 0
}

func interestOverlap(a, b []string) float64 {
	as, bs := toSet(a), toSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0.5
	}
	shared := 0
	for k := range as {
		if _, ok := bs[k]; ok {
			shared++
		}
	}
	union := len(as) + len(bs) - shared
	return float64(shared) / float64(union)
}

func languageOverlap(a, b []string) float64 {
	as, bs := toSet(a), toSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0.5
	}
	shared := 0
	for k := range as {
		if _, ok := bs[k]; ok {
			shared++
		}
	}
	switch {
	case shared >= 2:
		return 1.0
	case shared == 1:
		return 0.75
	default:
		return 0
	}
}

func religionFit(user, candidate *db.Profile) float64 {
	var a, b string
	if user != nil {
		a = str(user.Religion)
	}
	if candidate != nil {
		b = str(candidate.Religion)
	}
	if a == "" || b == "" || a == db.ReligionUndisclosed || b == db.ReligionUndisclosed {
		return 0.5
	}
	if strings.EqualFold(a, b) {
		return 1.0
	}
	return 0
}

// freshness steps down with the age of the candidate's last profile update.
func freshness(candidate *db.Profile, now time.Time) float64 {
	if candidate == nil || candidate.UpdatedAt.IsZero() {
		return 0.5
	}
	since := now.Sub(candidate.UpdatedAt)
	switch {
	case since <= 24*time.Hour:
		return 1.0
	case since < 30*24*time.Hour:
		return 0.5
	default:
		return 0
	}
}

func interests(p *db.Profile) []string {
	if p == nil {
		return nil
	}
	return p.Interests
}

func languages(p *db.Profile) []string {
	if p == nil {
		return nil
	}
	return p.Languages
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.ToLower(strings.TrimSpace(it))
		if it != "" {
			set[it] = struct{}{}
		}
	}
	return set
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
