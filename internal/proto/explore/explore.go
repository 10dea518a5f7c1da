// Package explore holds the ExploreService wire contract. Messages travel as
// JSON through the codec registered in codec.go.
package explore

type GetFeedRequest struct {
	UserId uint64 `json:"user_id" validate:"required"`
	Limit  int32  `json:"limit,omitempty" validate:"gte=0"`
}

type FeedCandidate struct {
	UserId    uint64  `json:"user_id"`
	FirstName string  `json:"first_name"`
	Score     float64 `json:"score"`
	LikedYou  bool    `json:"liked_you"`
}

type GetFeedResponse struct {
	Candidates []*FeedCandidate `json:"candidates"`
}

type PutSwipeRequest struct {
	ActorUserId     uint64 `json:"actor_user_id" validate:"required"`
	RecipientUserId uint64 `json:"recipient_user_id" validate:"required,nefield=ActorUserId"`
	Action          string `json:"action" validate:"required,oneof=like pass"`
}

type Match struct {
	MatchId        uint64 `json:"match_id"`
	ConversationId uint64 `json:"conversation_id,omitempty"`
	UserAId        uint64 `json:"user_a_id"`
	UserBId        uint64 `json:"user_b_id"`
	MatchedAtUnix  int64  `json:"matched_at_unix"` // milliseconds
}

type PutSwipeResponse struct {
	MutualLike bool   `json:"mutual_like"`
	Match      *Match `json:"match,omitempty"`
}

type ListLikedYouRequest struct {
	RecipientUserId uint64  `json:"recipient_user_id" validate:"required"`
	PaginationToken *string `json:"pagination_token,omitempty"`
	Limit           int32   `json:"limit,omitempty" validate:"gte=0"`
}

type ListLikedYouResponse_Liker struct {
	ActorId       uint64 `json:"actor_id"`
	UnixTimestamp uint64 `json:"unix_timestamp"` // milliseconds
}

type ListLikedYouResponse struct {
	Likers              []*ListLikedYouResponse_Liker `json:"likers"`
	NextPaginationToken *string                       `json:"next_pagination_token,omitempty"`
}

type CountLikedYouRequest struct {
	RecipientUserId uint64 `json:"recipient_user_id" validate:"required"`
}

type CountLikedYouResponse struct {
	Count uint64 `json:"count"`
}

type BlockUserRequest struct {
	BlockerUserId uint64 `json:"blocker_user_id" validate:"required"`
	BlockedUserId uint64 `json:"blocked_user_id" validate:"required,nefield=BlockerUserId"`
}

type BlockUserResponse struct{}

type UnmatchRequest struct {
	UserId      uint64 `json:"user_id" validate:"required"`
	OtherUserId uint64 `json:"other_user_id" validate:"required,nefield=UserId"`
}

type UnmatchResponse struct{}

type ListMatchesRequest struct {
	UserId uint64 `json:"user_id" validate:"required"`
}

type ListMatchesResponse struct {
	Matches []*Match `json:"matches"`
}

type WatchMatchesRequest struct {
	UserId uint64 `json:"user_id" validate:"required"`
}

type MatchEvent struct {
	EventId string `json:"event_id"`
	Type    string `json:"type"`
	Match   *Match `json:"match"`
}

func (x *ListLikedYouRequest) GetRecipientUserId() uint64 {
	if x != nil {
		return x.RecipientUserId
	}
	return 0
}

func (x *ListLikedYouRequest) GetPaginationToken() string {
	if x != nil && x.PaginationToken != nil {
		return *x.PaginationToken
	}
	return ""
}

func (x *ListLikedYouResponse) GetNextPaginationToken() string {
	if x != nil && x.NextPaginationToken != nil {
		return *x.NextPaginationToken
	}
	return ""
}
