// Package config reads filter pipelines from YAML:
//
//	cwd: /srv/site
//	engine: doublestar
//	stages:
//	  - patterns: ["**/*.js", "!**/*.min.js"]
//	    restore: true
//	  - patterns: ["*.json"]
//	    nocase: true
package config

import (
	"context"
	"os"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"github.com/retro-framework/go-filter/framework/ctxkey"
	"github.com/retro-framework/go-filter/framework/filter"
	"github.com/retro-framework/go-filter/framework/matcher"
	"github.com/retro-framework/go-filter/framework/pipeline"
	"github.com/retro-framework/go-filter/framework/types"
)

var (
	ErrNoStages   = xerrors.New("config: no stages")
	ErrNoPatterns = xerrors.New("config: stage has no patterns")
)

type Config struct {
	// Cwd anchors relative patterns, empty means the working directory
	// carried on the context.
	Cwd  string `yaml:"cwd"`
	Root string `yaml:"root"`

	// Engine is the default matcher engine for stages naming none.
	Engine string `yaml:"engine"`

	// Buffer is passed to every stage, see filter.Options.
	Buffer int `yaml:"buffer"`

	Stages []Stage `yaml:"stages"`
}

type Stage struct {
	Patterns    []string `yaml:"patterns"`
	Restore     bool     `yaml:"restore"`
	Passthrough *bool    `yaml:"passthrough"`

	matcher.Options `yaml:",inline"`
}

// Parse decodes and validates a pipeline document. Unknown keys are
// rejected.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(b, &c); err != nil {
		return nil, errors.Wrap(err, "can't parse pipeline config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses the pipeline document at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read pipeline config %s", path)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", path)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if len(c.Stages) == 0 {
		return ErrNoStages
	}
	for i, s := range c.Stages {
		if len(s.Patterns) == 0 {
			return xerrors.Errorf("stage %d: %w", i, ErrNoPatterns)
		}
	}
	return nil
}

// Filters builds one filter stage per configured stage, in order.
func (c *Config) Filters(ctx context.Context, logger types.Logger, tracer opentracing.Tracer) ([]*filter.Stage, error) {
	cwd := c.Cwd
	if cwd == "" {
		cwd = ctxkey.Cwd(ctx)
	}

	var stages = make([]*filter.Stage, 0, len(c.Stages))
	for i, s := range c.Stages {
		mo := s.Options
		if mo.Engine == "" {
			mo.Engine = c.Engine
		}
		stage, err := filter.New(s.Patterns, filter.Options{
			Restore:     s.Restore,
			Passthrough: s.Passthrough,
			Cwd:         cwd,
			Root:        c.Root,
			Matcher:     mo,
			Logger:      logger,
			Tracer:      tracer,
			Buffer:      c.Buffer,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "can't build stage %d", i)
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

// Chain builds the configured stages into a pipeline.
func (c *Config) Chain(ctx context.Context, logger types.Logger, tracer opentracing.Tracer) (*pipeline.Chain, error) {
	stages, err := c.Filters(ctx, logger, tracer)
	if err != nil {
		return nil, err
	}
	return pipeline.New(logger, tracer, stages...), nil
}
