// Package service assembles and runs the registered dataset streams. It creates
// and injects concrete implementations of the various parts required by Passage
// to function.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/teltech/logger"

	"github.com/pvallin/passage/entity"
	"github.com/pvallin/passage/internal/pkg/assembly"
	"github.com/pvallin/passage/internal/pkg/engine"
	"github.com/pvallin/passage/pkg/notify"
)

var log *logger.Log

func init() {
	log = logger.New()
}

const defaultNotifyChanSize = 128

type Config struct {
	NotifyChanSize int
	Engine         engine.Config
	Entity         assembly.Config
}

func (c Config) Close() error {
	return c.Entity.Close()
}

// Service holds the registered dataset streams and runs them to completion,
// sequentially in registration order. Each table is cleaned as one batch, so
// there is nothing to gain from running streams concurrently against the same
// local files, and sequential runs keep output and log ordering deterministic.
type Service struct {
	config        Config
	id            string
	entityFactory *assembly.StreamEntityFactory
	streamBuilder *engine.StreamBuilder
	notifyChan    entity.NotifyChan
	notifier      *notify.Notifier

	mu        sync.Mutex
	specs     map[string]*entity.Spec
	executors []*engine.Executor
}

func New(ctx context.Context, config Config) (*Service, error) {

	if config.Entity.Extractors == nil || config.Entity.Loaders == nil {
		return nil, fmt.Errorf("no extractor/loader factories provided in service config")
	}

	if config.NotifyChanSize == 0 {
		config.NotifyChanSize = defaultNotifyChanSize
	}

	s := &Service{
		config:     config,
		id:         uuid.New().String(),
		notifyChan: make(entity.NotifyChan, config.NotifyChanSize),
		specs:      make(map[string]*entity.Spec),
	}

	s.config.Engine.NotifyChan = s.notifyChan
	s.config.Entity.NotifyChan = s.notifyChan
	s.config.Entity.Log = config.Engine.Log

	var nativeLog *logger.Log
	if config.Engine.Log {
		nativeLog = log
	}
	s.notifier = notify.New(s.notifyChan, nativeLog, 2, "service", s.id, "")

	s.entityFactory = assembly.NewStreamEntityFactory(s.config.Entity)
	s.streamBuilder = engine.NewStreamBuilder(s.entityFactory)

	return s, nil
}

// RegisterStream validates the spec and prepares an executor for it. The stream
// is run by the next call to Run(). Disabled specs are accepted but skipped.
func (s *Service) RegisterStream(ctx context.Context, spec *entity.Spec) (string, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	id := spec.Id()
	if _, exists := s.specs[id]; exists {
		return id, fmt.Errorf("stream ID '%s' is already registered", id)
	}

	if spec.IsDisabled() {
		s.specs[id] = spec
		s.notifier.Notify(entity.NotifyLevelInfo, "stream '%s' registered as disabled, skipping", id)
		return id, nil
	}

	stream, err := s.streamBuilder.Build(ctx, spec)
	if err != nil {
		return id, err
	}

	executor := engine.NewExecutor(s.config.Engine, stream)
	if executor == nil {
		return id, fmt.Errorf("could not create executor for stream ID '%s'", id)
	}

	s.specs[id] = spec
	s.executors = append(s.executors, executor)
	s.notifier.Notify(entity.NotifyLevelInfo, "stream '%s' registered with instance '%s'", id, stream.Instance())
	return id, nil
}

// Run executes all registered streams sequentially, in registration order. The
// first stream failure aborts the run and is returned. A completed stream's
// executor is kept for metrics retrieval.
func (s *Service) Run(ctx context.Context) error {

	s.mu.Lock()
	executors := make([]*engine.Executor, len(s.executors))
	copy(executors, s.executors)
	s.mu.Unlock()

	for _, executor := range executors {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := executor.Run(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Metrics returns the processing metrics per registered stream ID.
func (s *Service) Metrics() map[string]entity.Metrics {

	s.mu.Lock()
	defer s.mu.Unlock()

	metrics := make(map[string]entity.Metrics, len(s.executors))
	for _, executor := range s.executors {
		metrics[executor.StreamId()] = executor.Metrics()
	}
	return metrics
}

func (s *Service) NotifyChannel() entity.NotifyChan {
	return s.notifyChan
}

func (s *Service) Stream(streamId string) (*engine.Stream, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, executor := range s.executors {
		if executor.StreamId() == streamId {
			return executor.Stream(), nil
		}
	}
	return nil, fmt.Errorf("no stream registered with ID '%s'", streamId)
}

func (s *Service) Specs() map[string]*entity.Spec {

	s.mu.Lock()
	defer s.mu.Unlock()

	specs := make(map[string]*entity.Spec, len(s.specs))
	for id, spec := range s.specs {
		specs[id] = spec
	}
	return specs
}

func (s *Service) Config() Config {
	return s.config
}

func (s *Service) String() string {
	b, _ := json.Marshal(&s.config)
	return string(b)
}
