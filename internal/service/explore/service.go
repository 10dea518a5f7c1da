package explore

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oggyb/muzz-match/internal/app"
	"github.com/oggyb/muzz-match/internal/config"
	"github.com/oggyb/muzz-match/internal/db"
	svcErr "github.com/oggyb/muzz-match/internal/errors"
	"github.com/oggyb/muzz-match/internal/events"
	"github.com/oggyb/muzz-match/internal/logger"
	pb "github.com/oggyb/muzz-match/internal/proto/explore"
	"github.com/oggyb/muzz-match/internal/repository"
	"github.com/oggyb/muzz-match/internal/scoring"
	"github.com/oggyb/muzz-match/internal/service/discovery"
	"github.com/oggyb/muzz-match/internal/service/matching"
)

// Service implements the Explore gRPC API.
// It validates requests and delegates to the discovery and matching services.
type Service struct {
	appCtx    *app.AppContext
	swipeRepo *repository.SwipeRepository
	feed      *discovery.Feed
	matching  *matching.Service
	maxPage   int

	pb.UnimplementedExploreServiceServer
}

// NewExploreService creates a new Explore service with dependencies from AppContext.
// Dependencies include:
//   - DB connection (via the swipe, match, block, candidate and profile repositories)
//   - RedisCache for "liked you" counters, when configured
//   - the event Publisher and Hub for match notifications
func NewExploreService(appCtx *app.AppContext) *Service {
	if appCtx.Logger == nil {
		appCtx.Logger = logger.L()
	}
	cfg := appCtx.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	swipes := repository.NewSwipeRepository(appCtx.DB)
	profiles := repository.NewProfileRepository(appCtx.DB)

	scorer := scoring.New(scoring.WithVariance(cfg.Feed.Variance))
	feed := discovery.NewFeed(
		repository.NewCandidateRepository(appCtx.DB),
		swipes,
		profiles,
		scorer,
		discovery.Limits{Default: cfg.Feed.DefaultLimit, Max: cfg.Feed.MaxLimit},
		appCtx.Logger,
	)

	opts := []matching.Option{
		matching.WithLogger(appCtx.Logger),
		matching.WithProfiles(profiles),
	}
	if appCtx.RedisCache != nil {
		opts = append(opts, matching.WithCache(appCtx.RedisCache))
	}
	if appCtx.Publisher != nil {
		opts = append(opts, matching.WithPublisher(appCtx.Publisher))
	}
	match := matching.New(
		swipes,
		repository.NewMatchRepository(appCtx.DB),
		repository.NewBlockRepository(appCtx.DB),
		opts...,
	)

	maxPage := cfg.Feed.MaxLimit
	if maxPage <= 0 {
		maxPage = discovery.MaxLimit
	}

	return &Service{
		appCtx:    appCtx,
		swipeRepo: swipes,
		feed:      feed,
		matching:  match,
		maxPage:   maxPage,
	}
}

// GetFeed returns ranked candidates for the user, most recommended first.
//
// Example:
//
//	svc.GetFeed(ctx, &pb.GetFeedRequest{UserId: 42, Limit: 20})
func (s *Service) GetFeed(ctx context.Context, req *pb.GetFeedRequest) (*pb.GetFeedResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	s.appCtx.Logger.Debug("GetFeed called", "user", req.UserId, "limit", req.Limit)

	candidates, err := s.feed.GetFeedForUser(ctx, req.UserId, int(req.Limit))
	if err != nil {
		s.appCtx.Logger.Error("GetFeed failed", "user", req.UserId, "err", err)
		return nil, svcErr.Map(err)
	}

	resp := &pb.GetFeedResponse{Candidates: make([]*pb.FeedCandidate, 0, len(candidates))}
	for _, c := range candidates {
		fc := &pb.FeedCandidate{
			UserId:   c.Profile.UserID,
			Score:    c.Score,
			LikedYou: c.LikedYou,
		}
		if c.Profile.FirstName != nil {
			fc.FirstName = *c.Profile.FirstName
		}
		resp.Candidates = append(resp.Candidates, fc)
	}
	return resp, nil
}

// PutSwipe records a like or pass and reports whether it completed a match.
//
// Behavior:
//   - A second swipe on the same pair is AlreadyExists; the first one stands.
//   - For a like, checks for a reciprocal like and creates the match.
//   - A match that a concurrent request already created is still returned
//     as mutual, not as an error.
//
// Example:
//
//	svc.PutSwipe(ctx, &pb.PutSwipeRequest{ActorUserId: 1, RecipientUserId: 2, Action: "like"})
func (s *Service) PutSwipe(ctx context.Context, req *pb.PutSwipeRequest) (*pb.PutSwipeResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	s.appCtx.Logger.Debug(
		"PutSwipe called",
		"actor", req.ActorUserId,
		"recipient", req.RecipientUserId,
		"action", req.Action,
	)

	res, err := s.matching.Swipe(ctx, req.ActorUserId, req.RecipientUserId, db.SwipeAction(req.Action))
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &pb.PutSwipeResponse{}
	if res.Match != nil {
		resp.MutualLike = true
		resp.Match = toPBMatch(res.Match.Match, res.Match.Conversation)
	}
	return resp, nil
}

// ListLikedYou returns all users who liked the given recipient.
//
// Behavior:
//   - Excludes users that the recipient explicitly passed.
//   - Excludes users blocked in either direction.
//   - Supports cursor-based pagination with paginationToken.
//   - Returns actor_id + timestamp pairs.
//
// Example:
//
//	svc.ListLikedYou(ctx, &pb.ListLikedYouRequest{RecipientUserId: 42})
func (s *Service) ListLikedYou(ctx context.Context, req *pb.ListLikedYouRequest) (*pb.ListLikedYouResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	s.appCtx.Logger.Debug("ListLikedYou called", "recipient", req.GetRecipientUserId(), "token", req.GetPaginationToken())

	swipes, nextToken, err := s.swipeRepo.GetLikers(ctx, req.RecipientUserId, req.PaginationToken, s.pageSize(req.Limit))
	if err != nil {
		s.appCtx.Logger.Error("GetLikers failed", "err", err)
		return nil, svcErr.Map(err)
	}

	resp := toLikers(swipes, nextToken)
	s.appCtx.Logger.Debug("ListLikedYou result", "liker_count", len(resp.Likers), "next_token", resp.GetNextPaginationToken())
	return resp, nil
}

// ListNewLikedYou returns users who liked the recipient and have not been
// swiped on by the recipient yet.
//
// Example:
//
//	svc.ListNewLikedYou(ctx, &pb.ListLikedYouRequest{RecipientUserId: 42})
func (s *Service) ListNewLikedYou(ctx context.Context, req *pb.ListLikedYouRequest) (*pb.ListLikedYouResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	s.appCtx.Logger.Debug("ListNewLikedYou called", "recipient", req.GetRecipientUserId())

	swipes, nextToken, err := s.swipeRepo.GetNewLikers(ctx, req.RecipientUserId, req.PaginationToken, s.pageSize(req.Limit))
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return toLikers(swipes, nextToken), nil
}

// CountLikedYou returns how many users liked the recipient.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID).
//  2. On a miss, falls back to DB via repository.CountLikers.
//  3. On DB fetch, updates Redis with a 1h TTL.
//
// Swipes and blocks drop the cached value, so it never goes stale for long.
func (s *Service) CountLikedYou(ctx context.Context, req *pb.CountLikedYouRequest) (*pb.CountLikedYouResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	s.appCtx.Logger.Debug("CountLikedYou called", "recipient", req.RecipientUserId)

	rc := s.appCtx.RedisCache
	if rc != nil {
		count, ok, err := rc.GetLikeCount(ctx, req.RecipientUserId)
		if err != nil {
			s.appCtx.Logger.Warn("like count cache read failed", "recipient", req.RecipientUserId, "err", err)
		} else if ok {
			return &pb.CountLikedYouResponse{Count: uint64(count)}, nil
		}
	}

	// fallback: DB
	count, err := s.swipeRepo.CountLikers(ctx, req.RecipientUserId)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	if rc != nil {
		if err := rc.SetLikeCount(ctx, req.RecipientUserId, count); err != nil {
			s.appCtx.Logger.Warn("like count cache write failed", "recipient", req.RecipientUserId, "err", err)
		}
	}
	return &pb.CountLikedYouResponse{Count: uint64(count)}, nil
}

// BlockUser blocks a user. Any match between the two is removed, and both
// drop out of each other's feed.
func (s *Service) BlockUser(ctx context.Context, req *pb.BlockUserRequest) (*pb.BlockUserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.matching.Block(ctx, req.BlockerUserId, req.BlockedUserId); err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.BlockUserResponse{}, nil
}

// Unmatch removes the match between two users along with its conversation.
func (s *Service) Unmatch(ctx context.Context, req *pb.UnmatchRequest) (*pb.UnmatchResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.matching.Unmatch(ctx, req.UserId, req.OtherUserId); err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.UnmatchResponse{}, nil
}

// ListMatches returns the user's matches, newest first.
func (s *Service) ListMatches(ctx context.Context, req *pb.ListMatchesRequest) (*pb.ListMatchesResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	matches, err := s.matching.ListMatches(ctx, req.UserId)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &pb.ListMatchesResponse{Matches: make([]*pb.Match, 0, len(matches))}
	for i := range matches {
		resp.Matches = append(resp.Matches, toPBMatch(&matches[i], nil))
	}
	return resp, nil
}

// WatchMatches streams match events for the user until the client goes away.
func (s *Service) WatchMatches(req *pb.WatchMatchesRequest, stream grpc.ServerStreamingServer[pb.MatchEvent]) error {
	if err := validate(req); err != nil {
		return err
	}
	if s.appCtx.Hub == nil {
		return status.Error(codes.Unavailable, "match events are not enabled")
	}

	ch, cancel := s.appCtx.Hub.Subscribe(req.UserId)
	defer cancel()
	s.appCtx.Logger.Debug("WatchMatches subscribed", "user", req.UserId)

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if err := stream.Send(toPBEvent(ev)); err != nil {
				return err
			}
		}
	}
}

func (s *Service) pageSize(limit int32) int {
	n := int(limit)
	if n > s.maxPage {
		return s.maxPage
	}
	return n
}

func toLikers(swipes []db.Swipe, nextToken *string) *pb.ListLikedYouResponse {
	resp := &pb.ListLikedYouResponse{Likers: make([]*pb.ListLikedYouResponse_Liker, 0, len(swipes))}
	for _, sw := range swipes {
		resp.Likers = append(resp.Likers, &pb.ListLikedYouResponse_Liker{
			ActorId:       sw.SwiperID,
			UnixTimestamp: uint64(sw.CreatedAt.UnixMilli()),
		})
	}
	if nextToken != nil {
		resp.NextPaginationToken = nextToken
	}
	return resp
}

func toPBMatch(m *db.Match, c *db.Conversation) *pb.Match {
	out := &pb.Match{
		MatchId:       m.ID,
		UserAId:       m.UserAID,
		UserBId:       m.UserBID,
		MatchedAtUnix: m.MatchedAt.UnixMilli(),
	}
	if c != nil {
		out.ConversationId = c.ID
	}
	return out
}

func toPBEvent(ev events.MatchEvent) *pb.MatchEvent {
	return &pb.MatchEvent{
		EventId: ev.ID,
		Type:    ev.Type,
		Match: &pb.Match{
			MatchId:        ev.MatchID,
			ConversationId: ev.ConversationID,
			UserAId:        ev.UserAID,
			UserBId:        ev.UserBID,
			MatchedAtUnix:  ev.MatchedAt.UnixMilli(),
		},
	}
}
