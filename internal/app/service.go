// Package service provides the core service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"

	"github.com/okian/crudapi/internal/domain/model"
	"github.com/okian/crudapi/pkg/logger"
	"github.com/okian/crudapi/pkg/metrics"
)

// Service builds acknowledgments for the CRUD routes. It holds no mutable
// state, so a single instance is shared by every request goroutine.
type Service struct {
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the greeting served on GET /.
func (s *Service) Root(_ context.Context) model.RootStatus {
	return model.RootStatus{Message: model.RootMessage}
}

// Acknowledge answers an operation that carries no payload.
func (s *Service) Acknowledge(ctx context.Context, op model.Operation) (model.Ack, error) {
	if op.AcceptsBody() {
		return model.Ack{}, fmt.Errorf("%w: %s", ErrBodyOperation, op)
	}
	if _, err := model.ParseOperation(string(op)); err != nil {
		return model.Ack{}, err
	}

	metrics.RecordOperation(op.String())
	s.debug(ctx, "operation acknowledged", logger.String("operation", op.String()))
	return model.NewAck(op), nil
}

// AcknowledgeItem answers a write operation, echoing item. A nil item is
// echoed as null.
func (s *Service) AcknowledgeItem(ctx context.Context, op model.Operation, item *model.ItemPayload) (model.ItemAck, error) {
	if !op.AcceptsBody() {
		return model.ItemAck{}, fmt.Errorf("%w: %s", ErrBodylessOperation, op)
	}

	metrics.RecordOperation(op.String())
	metrics.RecordPayloadEcho(op.String(), item != nil)
	s.debug(ctx, "operation acknowledged",
		logger.String("operation", op.String()),
		logger.Any("has_payload", item != nil))
	return model.NewItemAck(op, item), nil
}

func (s *Service) debug(ctx context.Context, msg string, fields ...logger.Field) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(ctx, msg, fields...)
}
