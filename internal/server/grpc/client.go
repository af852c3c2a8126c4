package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/litetable/litetable-readrows/internal/chunk"
	"github.com/litetable/litetable-readrows/internal/readrows"
	grpc2 "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client reads chunk streams from a chunk service.
type Client struct {
	conn *grpc2.ClientConn
}

type ClientConfig struct {
	// Target is the host:port of the chunk service
	Target string
}

func (c *ClientConfig) validate() error {
	var errGrp []error
	if c.Target == "" {
		errGrp = append(errGrp, errors.New("target required"))
	}
	return errors.Join(errGrp...)
}

// NewClient creates a client for the chunk service. No connection is made until the first
// call.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	conn, err := grpc2.NewClient(cfg.Target,
		grpc2.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", cfg.Target, err)
	}

	return &Client{conn: conn}, nil
}

// ReadRows starts streaming the named recording. The returned source yields io.EOF once the
// server closes the stream; status errors from the server are returned as is.
func (c *Client) ReadRows(ctx context.Context, name string) (readrows.Source, error) {
	stream, err := c.conn.NewStream(ctx, &ChunkServiceDesc.Streams[0], readRowsFullMethod)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(wrapperspb.String(name)); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}

	return &remoteSource{stream: stream}, nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

type remoteSource struct {
	stream grpc2.ClientStream
}

func (r *remoteSource) Recv() (*chunk.Chunk, error) {
	m := new(wrapperspb.BytesValue)
	if err := r.stream.RecvMsg(m); err != nil {
		return nil, err
	}
	return chunk.Decode(m.GetValue())
}
