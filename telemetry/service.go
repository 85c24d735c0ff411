package telemetry

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name. Its single method
// streams attitude samples as google.protobuf.Struct:
//
//	service AttitudeService {
//	  rpc Stream(google.protobuf.Empty) returns (stream google.protobuf.Struct);
//	}
const ServiceName = "horizon.telemetry.AttitudeService"

const streamMethod = "/" + ServiceName + "/Stream"

// AttitudeServer is implemented by attitude sources.
type AttitudeServer interface {
	Stream(*emptypb.Empty, AttitudeStream) error
}

// AttitudeStream is the server side of a Stream call.
type AttitudeStream interface {
	Send(*structpb.Struct) error
	Context() context.Context
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AttitudeServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Stream",
			Handler:       streamHandler,
			ServerStreams: true,
		},
	},
	Metadata: "horizon/telemetry/attitude.proto",
}

func RegisterAttitudeServer(s grpc.ServiceRegistrar, srv AttitudeServer) {
	s.RegisterService(&serviceDesc, srv)
}

func streamHandler(srv any, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(AttitudeServer).Stream(m, &attitudeStreamServer{stream})
}

type attitudeStreamServer struct {
	grpc.ServerStream
}

func (x *attitudeStreamServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

// attitudeClient is the client stub for AttitudeService.
type attitudeClient struct {
	cc grpc.ClientConnInterface
}

func newAttitudeClient(cc grpc.ClientConnInterface) *attitudeClient {
	return &attitudeClient{cc}
}

func (c *attitudeClient) Stream(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*attitudeStreamClient, error) {
	stream, err := c.cc.NewStream(ctx, &serviceDesc.Streams[0], streamMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &attitudeStreamClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type attitudeStreamClient struct {
	grpc.ClientStream
}

func (x *attitudeStreamClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
