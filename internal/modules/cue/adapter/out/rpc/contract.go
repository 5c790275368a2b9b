package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey   = "cuesink"
	serviceName    = "chalkup.cue.v1.CueSink"
	jsonCodecName  = "json"
	methodUnlock   = "/" + serviceName + "/Unlock"
	methodPlay     = "/" + serviceName + "/Play"
	methodVibrate  = "/" + serviceName + "/Vibrate"
	methodDescribe = "/" + serviceName + "/Describe"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "CHALKUP_CUE_PLUGIN",
	MagicCookieValue: "chalkup",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Description struct {
	Name   string `json:"name"`
	Audio  bool   `json:"audio"`
	Haptic bool   `json:"haptic"`
}

type UnlockResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason"`
}

type PlayRequest struct {
	FrequencyHz int32 `json:"frequency_hz"`
	DurationMS  int32 `json:"duration_ms"`
}

type VibrateRequest struct {
	PatternMS []int32 `json:"pattern_ms"`
}

type CueSinkServer interface {
	Describe(ctx context.Context, in *Empty) (*Description, error)
	Unlock(ctx context.Context, in *Empty) (*UnlockResponse, error)
	Play(ctx context.Context, in *PlayRequest) (*Empty, error)
	Vibrate(ctx context.Context, in *VibrateRequest) (*Empty, error)
}

type CueSinkClient interface {
	Describe(ctx context.Context) (*Description, error)
	Unlock(ctx context.Context) (*UnlockResponse, error)
	Play(ctx context.Context, in *PlayRequest) error
	Vibrate(ctx context.Context, in *VibrateRequest) error
}

type cueSinkClient struct {
	conn *grpc.ClientConn
}

func NewCueSinkClient(conn *grpc.ClientConn) CueSinkClient {
	return &cueSinkClient{conn: conn}
}

func (c *cueSinkClient) Describe(ctx context.Context) (*Description, error) {
	out := &Description{}
	if err := c.conn.Invoke(ctx, methodDescribe, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cueSinkClient) Unlock(ctx context.Context) (*UnlockResponse, error) {
	out := &UnlockResponse{}
	if err := c.conn.Invoke(ctx, methodUnlock, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cueSinkClient) Play(ctx context.Context, in *PlayRequest) error {
	return c.conn.Invoke(ctx, methodPlay, in, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

func (c *cueSinkClient) Vibrate(ctx context.Context, in *VibrateRequest) error {
	return c.conn.Invoke(ctx, methodVibrate, in, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

// unaryHandler adapts one typed server method to a grpc.MethodDesc handler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(ctx context.Context, in *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterCueSinkServer(server grpc.ServiceRegistrar, impl CueSinkServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*CueSinkServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "Describe", Handler: unaryHandler(methodDescribe, impl.Describe)},
			{MethodName: "Unlock", Handler: unaryHandler(methodUnlock, impl.Unlock)},
			{MethodName: "Play", Handler: unaryHandler(methodPlay, impl.Play)},
			{MethodName: "Vibrate", Handler: unaryHandler(methodVibrate, impl.Vibrate)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/cue-sink-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl CueSinkServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterCueSinkServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewCueSinkClient(conn), nil
}

func PluginMap(impl CueSinkServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
