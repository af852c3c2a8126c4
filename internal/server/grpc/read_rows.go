package grpc

import (
	"errors"
	"io"
	"time"

	"github.com/litetable/litetable-readrows/internal/chunk"
	"github.com/litetable/litetable-readrows/internal/observability"
	"github.com/litetable/litetable-readrows/internal/recorder"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ReadRows replays a recording as a chunk stream.
func (c *chunkService) ReadRows(msg *wrapperspb.StringValue, stream ReadRowsServer) error {
	err := c.readRows(msg, stream)
	observability.RecordServedStream(status.Code(err).String())
	if err != nil {
		log.Debug().Err(err).Str("recording", msg.GetValue()).Msg("ReadRows failed")
	}
	return err
}

func (c *chunkService) readRows(msg *wrapperspb.StringValue, stream ReadRowsServer) error {
	if err := c.validateReadRows(msg); err != nil {
		return err
	}

	name := msg.GetValue()
	src, closer, err := c.recordings.Open(name)
	if err != nil {
		if errors.Is(err, recorder.ErrNotFound) {
			return status.Errorf(codes.NotFound, "recording %s not found", name)
		}
		return status.Errorf(codes.Internal, "failed to open recording: %v", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn().Err(err).Str("recording", name).Msg("failed to close recording")
		}
	}()

	now := time.Now()
	sent := 0
	for {
		if err := stream.Context().Err(); err != nil {
			return status.FromContextError(err).Err()
		}

		ch, err := src.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return status.Errorf(codes.Internal, "failed to read recording: %v", err)
		}

		encoded, err := chunk.Encode(ch)
		if err != nil {
			return status.Errorf(codes.Internal, "failed to encode chunk %d: %v", sent, err)
		}
		if err := stream.Send(wrapperspb.Bytes(encoded)); err != nil {
			return err
		}
		sent++
	}

	log.Debug().
		Str("recording", name).
		Int("chunks", sent).
		Msgf("ReadRows took %s", time.Since(now))
	return nil
}
