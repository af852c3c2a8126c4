package grpc

import (
	"errors"
	"io"

	"github.com/litetable/litetable-readrows/internal/readrows"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

//go:generate mockgen -destination=service_mock.go -package=grpc -source=service.go

// recordings resolves a recording name to the chunks it holds.
type recordings interface {
	Open(name string) (readrows.Source, io.Closer, error)
}

type chunkService struct {
	recordings recordings
}

func (c *chunkService) validateReadRows(msg *wrapperspb.StringValue) error {
	var errGrp []error
	if msg.GetValue() == "" {
		errGrp = append(errGrp, status.Errorf(codes.InvalidArgument, "recording name required"))
	}

	return errors.Join(errGrp...)
}
