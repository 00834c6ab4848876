/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package userlookup

import (
	"context"
	"database/sql/driver"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/suparena/userlookup/config"
	"github.com/suparena/userlookup/datastore"
	"github.com/suparena/userlookup/datastore/ddb"
	"github.com/suparena/userlookup/datastore/sqlstore"
	"github.com/suparena/userlookup/errors"
	"github.com/suparena/userlookup/registry"
	"github.com/suparena/userlookup/storagemodels"
)

// DefaultTimeout bounds connect and query together when no timeout is set.
const DefaultTimeout = config.DefaultTimeout

// Service performs point lookups against the stores its registry can open.
// It is immutable after construction and safe for concurrent use.
type Service struct {
	registry *registry.Registry
	schema   storagemodels.Schema
	timeout  time.Duration
	log      zerolog.Logger
	openers  map[string]datastore.Opener
}

// Option configures a Service.
type Option func(*Service)

// WithRegistry resolves locators through reg instead of the built-in backends.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Service) {
		s.registry = reg
	}
}

// WithSchema reads records of schema instead of users(username, email).
func WithSchema(schema storagemodels.Schema) Option {
	return func(s *Service) {
		s.schema = schema.Clone()
	}
}

// WithTimeout bounds each lookup. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger for the service and the built-in backends.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithOpener serves scheme with opener, replacing any registered Opener.
func WithOpener(scheme string, opener datastore.Opener) Option {
	return func(s *Service) {
		s.openers[scheme] = opener
	}
}

// NewService creates a Service. Without WithRegistry it serves the sqlite,
// postgres and dynamodb schemes.
func NewService(opts ...Option) (*Service, error) {
	s := &Service{
		schema:  storagemodels.UserSchema.Clone(),
		timeout: DefaultTimeout,
		log:     zerolog.Nop(),
		openers: make(map[string]datastore.Opener),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.schema.Validate(); err != nil {
		return nil, err
	}

	if s.registry == nil {
		reg, err := DefaultRegistry(s.log)
		if err != nil {
			return nil, err
		}
		s.registry = reg
	}
	for scheme, opener := range s.openers {
		s.registry.Remove(scheme)
		if err := s.registry.Register(scheme, opener); err != nil {
			return nil, err
		}
	}
	s.openers = nil

	return s, nil
}

// NewServiceFromConfig creates a Service from loaded configuration.
func NewServiceFromConfig(cfg *config.Config, log zerolog.Logger, opts ...Option) (*Service, error) {
	schema, err := cfg.Schema.Resolve()
	if err != nil {
		return nil, err
	}

	dynamo := ddb.NewOpener(
		ddb.WithCredentials(cfg.DynamoDB.AccessKey, cfg.DynamoDB.SecretKey),
		ddb.WithRegion(cfg.DynamoDB.Region),
		ddb.WithEndpoint(cfg.DynamoDB.Endpoint),
		ddb.WithKeyTemplate(cfg.DynamoDB.KeyTemplate),
		ddb.WithIndex(cfg.DynamoDB.Index),
		ddb.WithLogger(log),
	)

	base := []Option{
		WithSchema(schema),
		WithTimeout(cfg.Store.Timeout),
		WithLogger(log),
		WithOpener(storagemodels.SchemeDynamoDB, dynamo),
	}
	return NewService(append(base, opts...)...)
}

// DefaultRegistry returns a registry serving the built-in backends.
func DefaultRegistry(log zerolog.Logger) (*registry.Registry, error) {
	reg := registry.New()
	for scheme, opener := range map[string]datastore.Opener{
		storagemodels.SchemeSQLite:   sqlstore.NewSQLiteOpener(sqlstore.WithLogger(log)),
		storagemodels.SchemePostgres: sqlstore.NewPostgresOpener(sqlstore.WithLogger(log)),
		storagemodels.SchemeDynamoDB: ddb.NewOpener(ddb.WithLogger(log)),
	} {
		if err := reg.Register(scheme, opener); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Schema returns the schema the service reads.
func (s *Service) Schema() storagemodels.Schema {
	return s.schema.Clone()
}

// Timeout returns the bound applied to each lookup.
func (s *Service) Timeout() time.Duration {
	return s.timeout
}

// Lookup fetches the record whose key field equals key exactly from the
// store at locator. The connection it acquires is released before Lookup
// returns, on every path. Lookup never panics on store faults; they are
// reported as an error outcome. A nil ctx is treated as context.Background.
func (s *Service) Lookup(ctx context.Context, locator string, key any) (out Outcome) {
	start := time.Now()
	redacted := storagemodels.Locator{Raw: locator}.Redacted()
	defer func() {
		ev := s.log.Debug().
			Str("locator", redacted).
			Str("table", s.schema.Table).
			Str("status", out.Status.String()).
			Dur("duration", time.Since(start))
		if out.Err != nil {
			ev = ev.Str("kind", string(out.Kind())).Err(out.Err)
		}
		ev.Msg("lookup")
	}()

	bound, err := bindKey(key)
	if err != nil {
		return Failed(err)
	}

	opener, loc, err := s.registry.Resolve(locator)
	if err != nil {
		return Failed(errors.NewConnectionError(redacted, err))
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conn, err := opener.Open(ctx, loc)
	if err != nil {
		return Failed(errors.Classify(errors.PhaseConnect, redacted, s.schema.Table, err))
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.log.Warn().Err(err).Str("locator", redacted).Msg("failed to release store connection")
		}
	}()

	rec, err := conn.GetOne(ctx, s.schema, bound)
	switch {
	case err == nil:
		return Found(rec)
	case errors.IsNotFound(err):
		return NotFound()
	default:
		return Failed(errors.Classify(errors.PhaseQuery, redacted, s.schema.Table, err))
	}
}

// bindKey checks that key can be bound as a query parameter and returns
// its driver value. A nil key can never identify a record.
func bindKey(key any) (any, error) {
	if key == nil {
		return nil, errors.NewValidationError("key", "lookup key is nil")
	}
	v, err := driver.DefaultParameterConverter.ConvertValue(key)
	if err != nil {
		return nil, errors.NewValidationError("key", fmt.Sprintf("cannot bind %T: %v", key, err))
	}
	if v == nil {
		return nil, errors.NewValidationError("key", "lookup key is nil")
	}
	return v, nil
}

var defaultService = sync.OnceValues(func() (*Service, error) {
	return NewService()
})

// Lookup runs a lookup with the default service: the users schema, the
// built-in backends and DefaultTimeout.
func Lookup(ctx context.Context, locator string, key any) Outcome {
	s, err := defaultService()
	if err != nil {
		return Failed(err)
	}
	return s.Lookup(ctx, locator, key)
}
