package grpc

import (
	grpc2 "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	serviceName        = "litetable.readrows.v1.ChunkService"
	readRowsStream     = "ReadRows"
	readRowsFullMethod = "/" + serviceName + "/" + readRowsStream
)

// ChunkServiceServer is the server API of the chunk service. A ReadRows request carries the
// name of a recording; the response streams one wire-encoded chunk per message.
type ChunkServiceServer interface {
	ReadRows(*wrapperspb.StringValue, ReadRowsServer) error
}

// ReadRowsServer is the server side of a ReadRows stream.
type ReadRowsServer interface {
	Send(*wrapperspb.BytesValue) error
	grpc2.ServerStream
}

type readRowsServer struct {
	grpc2.ServerStream
}

func (x *readRowsServer) Send(m *wrapperspb.BytesValue) error {
	return x.ServerStream.SendMsg(m)
}

func readRowsHandler(srv interface{}, stream grpc2.ServerStream) error {
	m := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(ChunkServiceServer).ReadRows(m, &readRowsServer{stream})
}

// ChunkServiceDesc describes the chunk service for grpc.Server.RegisterService.
var ChunkServiceDesc = grpc2.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ChunkServiceServer)(nil),
	Methods:     []grpc2.MethodDesc{},
	Streams: []grpc2.StreamDesc{
		{
			StreamName:    readRowsStream,
			Handler:       readRowsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "litetable/readrows/v1/chunk_service.proto",
}

// RegisterChunkServiceServer registers srv on s.
func RegisterChunkServiceServer(s grpc2.ServiceRegistrar, srv ChunkServiceServer) {
	s.RegisterService(&ChunkServiceDesc, srv)
}
