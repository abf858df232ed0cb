// Package crud executes the controller's outbound commands against the
// backend API and records their outcomes in the shared store.
package crud

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/five82/subdeck/internal/api"
	"github.com/five82/subdeck/internal/diskcache"
	"github.com/five82/subdeck/internal/logging"
	"github.com/five82/subdeck/internal/state"
	"github.com/five82/subdeck/internal/subscriber"
)

// Service wires the subscriber API to the store. The disk cache is optional.
type Service struct {
	api    api.SubscriberAPI
	store  *state.Store
	cache  *diskcache.Cache
	logger *zerolog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithCache persists fetched collections to c.
func WithCache(c *diskcache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLogger sets the logger used for command outcomes.
func WithLogger(l *zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New builds a Service.
func New(client api.SubscriberAPI, store *state.Store, opts ...Option) *Service {
	s := &Service{api: client, store: store, logger: logging.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the store the service writes to.
func (s *Service) Store() *state.Store {
	return s.store
}

// Fetch loads the collection. It returns without doing anything when another
// fetch is already in flight.
func (s *Service) Fetch(ctx context.Context) error {
	if !s.store.BeginFetch() {
		return nil
	}
	subs, err := s.api.ListSubscribers(ctx)
	s.store.FinishFetch(subs, err)
	if err != nil {
		failures := s.store.Snapshot().ConsecutiveFailures
		s.logger.Warn().Err(err).Int("failures", failures).Msg("subscriber fetch failed")
		return fmt.Errorf("fetch subscribers: %w", err)
	}
	s.logger.Debug().Int("count", len(subs)).Msg("subscribers fetched")

	if s.cache != nil {
		if err := s.cache.Replace(ctx, subs); err != nil {
			s.logger.Warn().Err(err).Str("dir", s.cache.Path()).Msg("cache write failed")
		}
	}
	return nil
}

// Delete removes imsi and records the outcome under the delete status.
func (s *Service) Delete(ctx context.Context, imsi string) error {
	s.store.BeginAction(subscriber.OpDelete, imsi)

	err := s.api.DeleteSubscriber(ctx, imsi)
	if err != nil {
		s.store.FinishAction(subscriber.OpDelete, imsi, nil, ErrorInfo(err))
		s.logger.Error().Err(err).Str("imsi", imsi).Str("op", string(subscriber.OpDelete)).Msg("subscriber action failed")
		return fmt.Errorf("delete %s: %w", imsi, err)
	}

	s.store.FinishAction(subscriber.OpDelete, imsi, &subscriber.Result{ID: imsi}, nil)
	s.logger.Info().Str("imsi", imsi).Str("op", string(subscriber.OpDelete)).Msg("subscriber deleted")
	if s.cache != nil {
		if err := s.cache.Delete(imsi); err != nil {
			s.logger.Warn().Err(err).Str("imsi", imsi).Msg("cache erase failed")
		}
	}
	return nil
}

// Save creates or updates sub depending on op.
func (s *Service) Save(ctx context.Context, op subscriber.Operation, sub subscriber.Subscriber) error {
	imsi := strings.TrimSpace(sub.IMSI)
	sub.IMSI = imsi
	s.store.BeginAction(op, imsi)

	var err error
	switch op {
	case subscriber.OpCreate:
		sub, err = s.api.CreateSubscriber(ctx, sub)
	case subscriber.OpUpdate:
		sub, err = s.api.UpdateSubscriber(ctx, sub)
	default:
		err = fmt.Errorf("unsupported operation %q", op)
	}
	if err != nil {
		s.store.FinishAction(op, imsi, nil, ErrorInfo(err))
		s.logger.Error().Err(err).Str("imsi", imsi).Str("op", string(op)).Msg("subscriber action failed")
		return fmt.Errorf("%s %s: %w", op, imsi, err)
	}

	if sub.IMSI != "" {
		imsi = sub.IMSI
	}
	s.store.FinishAction(op, imsi, &subscriber.Result{ID: imsi}, nil)
	s.logger.Info().Str("imsi", imsi).Str("op", string(op)).Msg("subscriber saved")
	return nil
}

// Clear resets the status for op. It is safe to call repeatedly.
func (s *Service) Clear(op subscriber.Operation) {
	s.store.ClearAction(op)
}

// Refresh marks the collection stale.
func (s *Service) Refresh() {
	s.store.Invalidate()
}

// ErrorInfo converts an API error into the status error shape. Backend errors
// carry the decoded body; transport and validation errors leave Response nil
// unless they have a message worth showing.
func ErrorInfo(err error) *subscriber.ErrorInfo {
	if err == nil {
		return nil
	}
	info := &subscriber.ErrorInfo{Err: err}

	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		info.Response = &subscriber.ErrorResponse{Status: apiErr.StatusCode}
		if apiErr.HasBody() {
			info.Response.Data = &subscriber.ErrorData{Name: apiErr.Name, Message: apiErr.Message}
		}
	case errors.Is(err, api.ErrMissingIMSI):
		info.Response = &subscriber.ErrorResponse{
			Data: &subscriber.ErrorData{Name: "ValidationError", Message: api.ErrMissingIMSI.Error()},
		}
	}
	return info
}
