package passage

import (
	"github.com/pvallin/passage/entity"
	"github.com/pvallin/passage/internal/pkg/entity/inline"
	"github.com/pvallin/passage/internal/pkg/entity/void"
	"github.com/pvallin/passage/internal/service"
)

// Config needs to be created with NewConfig() and filled in with config as applicable
// for the intended setup, and provided in the call to passage.New().
// All config fields are optional. See individual struct types for documentation.
type Config struct {
	Ops   OpsConfig
	Hooks HookConfig

	// Extractors and Loaders are added to the config with Config.RegisterExtractorType()
	// and Config.RegisterLoaderType().
	extractors entity.ExtractorFactories
	loaders    entity.LoaderFactories
}

// OpsConfig provides options for observability.
type OpsConfig struct {

	// Size of the notification channel buffer
	NotifyChanSize int

	// If set to true native logging will be used (debug, info, warn, and error logs).
	// If set to false (default) no standard logging will be done, but the same type of
	// information will be provided on the notification channel, accessible with
	// passage.NotifyChannel().
	Log bool
}

// HookConfig enables a Passage client to inject custom logic into the row processing,
// such as enrichment, deduplication, and filtering (if existing spec transform
// options are not suitable).
type HookConfig struct {
	PreTransformHookFunc  entity.PreTransformHookFunc
	PostTransformHookFunc entity.PostTransformHookFunc
}

// NewConfig returns an initialized Config struct, required for passage.New().
// With this config applicable Source/Sink extractors/loaders should be registered
// before calling passage.New().
func NewConfig() *Config {
	return &Config{
		extractors: make(entity.ExtractorFactories),
		loaders:    make(entity.LoaderFactories),
	}
}

// RegisterLoaderType is used to prepare config for Passage to make this particular
// Sink/Loader type available for dataset specs to use. This can only be done after
// a passage.NewConfig() and prior to creating Passage with passage.New().
func (c *Config) RegisterLoaderType(loaderFactory entity.LoaderFactory) error {
	if _, ok := entity.ReservedEntityNames[loaderFactory.SinkId()]; ok {
		return ErrInvalidEntityId
	}
	c.registerLoaderType(loaderFactory)
	return nil
}

// RegisterExtractorType is used to prepare config for Passage to make this particular
// Source/Extractor type available for dataset specs to use. This can only be done after
// a passage.NewConfig() and prior to creating Passage with passage.New().
func (c *Config) RegisterExtractorType(extractorFactory entity.ExtractorFactory) error {
	if _, ok := entity.ReservedEntityNames[extractorFactory.SourceId()]; ok {
		return ErrInvalidEntityId
	}
	c.registerExtractorType(extractorFactory)
	return nil
}

func (c *Config) registerLoaderType(loaderFactory entity.LoaderFactory) {
	c.loaders[loaderFactory.SinkId()] = loaderFactory
}

func (c *Config) registerExtractorType(extractorFactory entity.ExtractorFactory) {
	c.extractors[extractorFactory.SourceId()] = extractorFactory
}

func preProcessConfig(config *Config) service.Config {

	// Register native source/sink types
	config.registerExtractorType(inline.NewExtractorFactory())
	config.registerLoaderType(void.NewLoaderFactory())

	// Convert external config to internal
	var c service.Config
	c.NotifyChanSize = config.Ops.NotifyChanSize
	c.Entity.Loaders = config.loaders
	c.Entity.Extractors = config.extractors
	c.Engine.Log = config.Ops.Log
	c.Engine.PreTransformHookFunc = config.Hooks.PreTransformHookFunc
	c.Engine.PostTransformHookFunc = config.Hooks.PostTransformHookFunc

	return c
}
