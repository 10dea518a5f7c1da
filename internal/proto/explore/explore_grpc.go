package explore

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ExploreService_GetFeed_FullMethodName         = "/explore.ExploreService/GetFeed"
	ExploreService_PutSwipe_FullMethodName        = "/explore.ExploreService/PutSwipe"
	ExploreService_ListLikedYou_FullMethodName    = "/explore.ExploreService/ListLikedYou"
	ExploreService_ListNewLikedYou_FullMethodName = "/explore.ExploreService/ListNewLikedYou"
	ExploreService_CountLikedYou_FullMethodName   = "/explore.ExploreService/CountLikedYou"
	ExploreService_BlockUser_FullMethodName       = "/explore.ExploreService/BlockUser"
	ExploreService_Unmatch_FullMethodName         = "/explore.ExploreService/Unmatch"
	ExploreService_ListMatches_FullMethodName     = "/explore.ExploreService/ListMatches"
	ExploreService_WatchMatches_FullMethodName    = "/explore.ExploreService/WatchMatches"
)

// ExploreServiceClient is the client API for ExploreService.
type ExploreServiceClient interface {
	GetFeed(ctx context.Context, in *GetFeedRequest, opts ...grpc.CallOption) (*GetFeedResponse, error)
	PutSwipe(ctx context.Context, in *PutSwipeRequest, opts ...grpc.CallOption) (*PutSwipeResponse, error)
	ListLikedYou(ctx context.Context, in *ListLikedYouRequest, opts ...grpc.CallOption) (*ListLikedYouResponse, error)
	ListNewLikedYou(ctx context.Context, in *ListLikedYouRequest, opts ...grpc.CallOption) (*ListLikedYouResponse, error)
	CountLikedYou(ctx context.Context, in *CountLikedYouRequest, opts ...grpc.CallOption) (*CountLikedYouResponse, error)
	BlockUser(ctx context.Context, in *BlockUserRequest, opts ...grpc.CallOption) (*BlockUserResponse, error)
	Unmatch(ctx context.Context, in *UnmatchRequest, opts ...grpc.CallOption) (*UnmatchResponse, error)
	ListMatches(ctx context.Context, in *ListMatchesRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error)
	WatchMatches(ctx context.Context, in *WatchMatchesRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[MatchEvent], error)
}

type exploreServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewExploreServiceClient(cc grpc.ClientConnInterface) ExploreServiceClient {
	return &exploreServiceClient{cc}
}

func (c *exploreServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *exploreServiceClient) GetFeed(ctx context.Context, in *GetFeedRequest, opts ...grpc.CallOption) (*GetFeedResponse, error) {
	out := new(GetFeedResponse)
	if err := c.invoke(ctx, ExploreService_GetFeed_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *exploreServiceClient) PutSwipe(ctx context.Context, in *PutSwipeRequest, opts ...grpc.CallOption) (*PutSwipeResponse, error) {
	out := new(PutSwipeResponse)
	if err := c.invoke(ctx, ExploreService_PutSwipe_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *exploreServiceClient) ListLikedYou(ctx context.Context, in *ListLikedYouRequest, opts ...grpc.CallOption) (*ListLikedYouResponse, error) {
	out := new(ListLikedYouResponse)
	if err := c.invoke(ctx, ExploreService_ListLikedYou_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *exploreServiceClient) ListNewLikedYou(ctx context.Context, in *ListLikedYouRequest, opts ...grpc.CallOption) (*ListLikedYouResponse, error) {
	out := new(ListLikedYouResponse)
	if err := c.invoke(ctx, ExploreService_ListNewLikedYou_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *exploreServiceClient) CountLikedYou(ctx context.Context, in *CountLikedYouRequest, opts ...grpc.CallOption) (*CountLikedYouResponse, error) {
	out := new(CountLikedYouResponse)
	if err := c.invoke(ctx, ExploreService_CountLikedYou_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *exploreServiceClient) BlockUser(ctx context.Context, in *BlockUserRequest, opts ...grpc.CallOption) (*BlockUserResponse, error) {
	out := new(BlockUserResponse)
	if err := c.invoke(ctx, ExploreService_BlockUser_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *exploreServiceClient) Unmatch(ctx context.Context, in *UnmatchRequest, opts ...grpc.CallOption) (*UnmatchResponse, error) {
	out := new(UnmatchResponse)
	if err := c.invoke(ctx, ExploreService_Unmatch_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *exploreServiceClient) ListMatches(ctx context.Context, in *ListMatchesRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error) {
	out := new(ListMatchesResponse)
	if err := c.invoke(ctx, ExploreService_ListMatches_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *exploreServiceClient) WatchMatches(ctx context.Context, in *WatchMatchesRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[MatchEvent], error) {
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	stream, err := c.cc.NewStream(ctx, &ExploreService_ServiceDesc.Streams[0], ExploreService_WatchMatches_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[WatchMatchesRequest, MatchEvent]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// ExploreServiceServer is the server API for ExploreService.
type ExploreServiceServer interface {
	GetFeed(context.Context, *GetFeedRequest) (*GetFeedResponse, error)
	PutSwipe(context.Context, *PutSwipeRequest) (*PutSwipeResponse, error)
	ListLikedYou(context.Context, *ListLikedYouRequest) (*ListLikedYouResponse, error)
	ListNewLikedYou(context.Context, *ListLikedYouRequest) (*ListLikedYouResponse, error)
	CountLikedYou(context.Context, *CountLikedYouRequest) (*CountLikedYouResponse, error)
	BlockUser(context.Context, *BlockUserRequest) (*BlockUserResponse, error)
	Unmatch(context.Context, *UnmatchRequest) (*UnmatchResponse, error)
	ListMatches(context.Context, *ListMatchesRequest) (*ListMatchesResponse, error)
	WatchMatches(*WatchMatchesRequest, grpc.ServerStreamingServer[MatchEvent]) error
	mustEmbedUnimplementedExploreServiceServer()
}

// UnimplementedExploreServiceServer must be embedded for forward compatibility.
type UnimplementedExploreServiceServer struct{}

func (UnimplementedExploreServiceServer) GetFeed(context.Context, *GetFeedRequest) (*GetFeedResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetFeed not implemented")
}
func (UnimplementedExploreServiceServer) PutSwipe(context.Context, *PutSwipeRequest) (*PutSwipeResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PutSwipe not implemented")
}
func (UnimplementedExploreServiceServer) ListLikedYou(context.Context, *ListLikedYouRequest) (*ListLikedYouResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListLikedYou not implemented")
}
func (UnimplementedExploreServiceServer) ListNewLikedYou(context.Context, *ListLikedYouRequest) (*ListLikedYouResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListNewLikedYou not implemented")
}
func (UnimplementedExploreServiceServer) CountLikedYou(context.Context, *CountLikedYouRequest) (*CountLikedYouResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CountLikedYou not implemented")
}
func (UnimplementedExploreServiceServer) BlockUser(context.Context, *BlockUserRequest) (*BlockUserResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method BlockUser not implemented")
}
func (UnimplementedExploreServiceServer) Unmatch(context.Context, *UnmatchRequest) (*UnmatchResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Unmatch not implemented")
}
func (UnimplementedExploreServiceServer) ListMatches(context.Context, *ListMatchesRequest) (*ListMatchesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListMatches not implemented")
}
func (UnimplementedExploreServiceServer) WatchMatches(*WatchMatchesRequest, grpc.ServerStreamingServer[MatchEvent]) error {
	return status.Errorf(codes.Unimplemented, "method WatchMatches not implemented")
}
func (UnimplementedExploreServiceServer) mustEmbedUnimplementedExploreServiceServer() {}

func RegisterExploreServiceServer(s grpc.ServiceRegistrar, srv ExploreServiceServer) {
	s.RegisterService(&ExploreService_ServiceDesc, srv)
}

// unaryHandler adapts one typed unary method to grpc's handler signature.
func unaryHandler[Req any, Res any](
	method string,
	call func(ExploreServiceServer, context.Context, *Req) (*Res, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ExploreServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ExploreServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _ExploreService_WatchMatches_Handler(srv any, stream grpc.ServerStream) error {
	m := new(WatchMatchesRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(ExploreServiceServer).WatchMatches(m, &grpc.GenericServerStream[WatchMatchesRequest, MatchEvent]{ServerStream: stream})
}

// ExploreService_ServiceDesc is the grpc.ServiceDesc for ExploreService.
var ExploreService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "explore.ExploreService",
	HandlerType: (*ExploreServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetFeed",
			Handler: unaryHandler(ExploreService_GetFeed_FullMethodName,
				ExploreServiceServer.GetFeed),
		},
		{
			MethodName: "PutSwipe",
			Handler: unaryHandler(ExploreService_PutSwipe_FullMethodName,
				ExploreServiceServer.PutSwipe),
		},
		{
			MethodName: "ListLikedYou",
			Handler: unaryHandler(ExploreService_ListLikedYou_FullMethodName,
				ExploreServiceServer.ListLikedYou),
		},
		{
			MethodName: "ListNewLikedYou",
			Handler: unaryHandler(ExploreService_ListNewLikedYou_FullMethodName,
				ExploreServiceServer.ListNewLikedYou),
		},
		{
			MethodName: "CountLikedYou",
			Handler: unaryHandler(ExploreService_CountLikedYou_FullMethodName,
				ExploreServiceServer.CountLikedYou),
		},
		{
			MethodName: "BlockUser",
			Handler: unaryHandler(ExploreService_BlockUser_FullMethodName,
				ExploreServiceServer.BlockUser),
		},
		{
			MethodName: "Unmatch",
			Handler: unaryHandler(ExploreService_Unmatch_FullMethodName,
				ExploreServiceServer.Unmatch),
		},
		{
			MethodName: "ListMatches",
			Handler: unaryHandler(ExploreService_ListMatches_FullMethodName,
				ExploreServiceServer.ListMatches),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchMatches",
			Handler:       _ExploreService_WatchMatches_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "explore.proto",
}
