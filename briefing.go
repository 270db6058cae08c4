// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package briefing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/briefing/ai"
	"github.com/poiesic/briefing/ai/openai"
	"github.com/poiesic/briefing/api"
	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/evaluate"
	"github.com/poiesic/briefing/ingest"
	"github.com/poiesic/briefing/interpret"
	"github.com/poiesic/briefing/metrics"
	"github.com/poiesic/briefing/pipeline"
	"github.com/poiesic/briefing/rank"
	"github.com/poiesic/briefing/ratelimit"
	"github.com/poiesic/briefing/retrieve"
	"github.com/poiesic/briefing/sources/learn"
	"github.com/poiesic/briefing/sources/tenant"
	"github.com/poiesic/briefing/storage"
	"github.com/poiesic/briefing/storage/badger"
	"github.com/redis/go-redis/v9"
)

// Service wires the local dataset, external sources and pipeline stages
// into one searchable unit.
type Service struct {
	backend      *badger.Backend
	updates      storage.UpdateRepository
	checkpoints  storage.CheckpointRepository
	catalog      *catalog.Catalog
	reasoner     ai.Reasoner
	retriever    *retrieve.Retriever
	orchestrator *pipeline.Orchestrator
	monitor      *metrics.Monitor
	limiter      ratelimit.Limiter
	redis        *redis.Client
	logger       *slog.Logger
}

// Option configures a Service.
type Option func(*options)

type options struct {
	inMemory      bool
	catalogPath   string
	aiConfig      *ai.Config
	learnEnabled  bool
	learnOpts     []learn.Option
	tenantURL     string
	tenantOpts    []tenant.AskerOption
	threshold     float64
	redisURL      string
	rateLimitOpts []ratelimit.Option
	retrieverOpts []retrieve.Option
	logger        *slog.Logger
}

// WithInMemory keeps the dataset in memory and ignores the path.
func WithInMemory() Option {
	return func(o *options) {
		o.inMemory = true
	}
}

// WithCatalogFile loads the product catalog from a YAML file instead of the
// built-in list.
func WithCatalogFile(path string) Option {
	return func(o *options) {
		o.catalogPath = path
	}
}

// WithAIConfig sets the reasoning service configuration.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg
	}
}

// WithLearn enables or disables the documentation search source and passes
// options to its client.
func WithLearn(enabled bool, opts ...learn.Option) Option {
	return func(o *options) {
		o.learnEnabled = enabled
		o.learnOpts = append(o.learnOpts, opts...)
	}
}

// WithTenant enables the tenant data source at baseURL.
func WithTenant(baseURL string, opts ...tenant.AskerOption) Option {
	return func(o *options) {
		o.tenantURL = baseURL
		o.tenantOpts = append(o.tenantOpts, opts...)
	}
}

// WithEvaluatorThreshold sets the quality score a result set must reach.
func WithEvaluatorThreshold(threshold float64) Option {
	return func(o *options) {
		o.threshold = threshold
	}
}

// WithRedis stores rate-limit state in the Redis server at url instead of
// process memory.
func WithRedis(url string) Option {
	return func(o *options) {
		o.redisURL = url
	}
}

// WithRateLimit passes options to the rate limiter.
func WithRateLimit(opts ...ratelimit.Option) Option {
	return func(o *options) {
		o.rateLimitOpts = append(o.rateLimitOpts, opts...)
	}
}

// WithRetrieverOptions passes options to the retriever.
func WithRetrieverOptions(opts ...retrieve.Option) Option {
	return func(o *options) {
		o.retrieverOpts = append(o.retrieverOpts, opts...)
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewService opens the dataset at dbPath and builds every pipeline stage.
func NewService(dbPath string, opts ...Option) (*Service, error) {
	o := &options{
		aiConfig:     ai.DefaultConfig(),
		learnEnabled: true,
		threshold:    evaluate.DefaultThreshold,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	s := &Service{logger: o.logger.With("component", "briefing")}
	if err := s.open(dbPath, o); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Service) open(dbPath string, o *options) error {
	var err error
	s.catalog = catalog.Default()
	if o.catalogPath != "" {
		if s.catalog, err = catalog.LoadFile(o.catalogPath); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
	}

	if s.backend, err = badger.OpenBackend(dbPath, o.inMemory); err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	s.updates = badger.NewUpdateRepository(s.backend)
	s.checkpoints = badger.NewCheckpointRepository(s.backend)

	reasoner, err := openai.NewReasoner(o.aiConfig)
	if err != nil {
		return fmt.Errorf("create reasoner: %w", err)
	}
	s.reasoner = reasoner

	rules, err := interpret.NewRuleBased(s.catalog)
	if err != nil {
		return err
	}
	enriched, err := interpret.NewEnriched(s.reasoner, s.catalog)
	if err != nil {
		return err
	}
	chain, err := interpret.NewChain(rules, enriched)
	if err != nil {
		return err
	}

	retrieverOpts := []retrieve.Option{retrieve.WithLogger(o.logger.With("component", "retrieve"))}
	if o.learnEnabled {
		client, err := learn.NewClient(o.learnOpts...)
		if err != nil {
			return fmt.Errorf("create doc search client: %w", err)
		}
		retrieverOpts = append(retrieverOpts, retrieve.WithDocSearch(client))
	}
	if o.tenantURL != "" {
		asker, err := tenant.NewHTTPAsker(o.tenantURL, o.tenantOpts...)
		if err != nil {
			return fmt.Errorf("create tenant client: %w", err)
		}
		searcher, err := tenant.NewSearcher(asker)
		if err != nil {
			return fmt.Errorf("create tenant searcher: %w", err)
		}
		retrieverOpts = append(retrieverOpts, retrieve.WithTenantSearch(searcher))
	}
	retrieverOpts = append(retrieverOpts, o.retrieverOpts...)
	if s.retriever, err = retrieve.NewRetriever(s.updates, s.catalog, retrieverOpts...); err != nil {
		return err
	}

	ranker, err := rank.NewRanker()
	if err != nil {
		return err
	}
	evaluator, err := evaluate.NewEvaluator(chain,
		evaluate.WithReasoner(s.reasoner),
		evaluate.WithThreshold(o.threshold),
	)
	if err != nil {
		return err
	}

	s.monitor = metrics.NewMonitor()
	s.orchestrator, err = pipeline.NewOrchestrator(chain, s.retriever, ranker, evaluator, s.catalog,
		pipeline.WithSummarizer(pipeline.NewSummarizer(pipeline.WithSummaryReasoner(s.reasoner))),
		pipeline.WithMonitor(s.monitor),
		pipeline.WithLogger(o.logger.With("component", "pipeline")),
	)
	if err != nil {
		return err
	}

	if err := s.openLimiter(o); err != nil {
		return fmt.Errorf("create rate limiter: %w", err)
	}

	s.logger.Info("service ready",
		"products", s.catalog.Len(),
		"reasoning", s.reasoner.Available(),
		"doc_search", o.learnEnabled,
		"tenant", o.tenantURL != "",
		"redis", o.redisURL != "")
	return nil
}

func (s *Service) openLimiter(o *options) error {
	if o.redisURL == "" {
		limiter, err := ratelimit.NewMemoryLimiter(o.rateLimitOpts...)
		if err != nil {
			return err
		}
		s.limiter = limiter
		return nil
	}

	redisOpts, err := redis.ParseURL(o.redisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	s.redis = redis.NewClient(redisOpts)
	limiter, err := ratelimit.NewRedisLimiter(s.redis, o.rateLimitOpts...)
	if err != nil {
		return err
	}
	s.limiter = limiter
	return nil
}

// Search runs one request through the pipeline.
func (s *Service) Search(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
	return s.orchestrator.Search(ctx, req)
}

// NewImporter creates a seed importer writing to the service dataset.
func (s *Service) NewImporter(opts ...ingest.Option) (*ingest.Importer, error) {
	return ingest.NewImporter(s.updates, s.checkpoints, s.catalog, opts...)
}

// Handler creates the HTTP API for the service, rate limited and
// instrumented.
func (s *Service) Handler(opts ...api.Option) (*api.Handler, error) {
	base := []api.Option{
		api.WithRateLimiter(s.limiter),
		api.WithRejectionCounter(s.monitor),
		api.WithMetricsHandler(s.monitor.Handler()),
		api.WithLogger(s.logger.With("component", "api")),
	}
	return api.NewHandler(s, s.catalog, append(base, opts...)...)
}

// Catalog returns the product catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// UpdateRepository returns the local dataset.
func (s *Service) UpdateRepository() storage.UpdateRepository {
	return s.updates
}

// CheckpointRepository returns the import checkpoint store.
func (s *Service) CheckpointRepository() storage.CheckpointRepository {
	return s.checkpoints
}

// Monitor returns the metrics monitor.
func (s *Service) Monitor() *metrics.Monitor {
	return s.monitor
}

// Close releases every resource the service holds. It is safe to call on a
// partially constructed service.
func (s *Service) Close() error {
	var errs []error
	if s.limiter != nil {
		if err := s.limiter.Close(); err != nil {
			s.logger.Error("error closing rate limiter", "err", err)
			errs = append(errs, err)
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("error closing redis client", "err", err)
			errs = append(errs, err)
		}
	}
	if s.retriever != nil {
		s.retriever.Close()
	}
	if s.reasoner != nil {
		if err := s.reasoner.Close(); err != nil {
			s.logger.Error("error closing reasoner", "err", err)
		}
	}
	if s.updates != nil {
		if err := s.updates.Close(); err != nil {
			s.logger.Error("error closing update repository", "err", err)
			errs = append(errs, err)
		}
	}
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
