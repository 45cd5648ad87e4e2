package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/standardizer/internal/cache"
	"github.com/cleared-dev/standardizer/internal/catalog"
	"github.com/cleared-dev/standardizer/internal/classify"
	"github.com/cleared-dev/standardizer/internal/config"
	"github.com/cleared-dev/standardizer/internal/logging"
	"github.com/cleared-dev/standardizer/internal/pipeline"
)

type globalOptions struct {
	repo       string
	configPath string
	endpoint   string
	logLevel   string
}

// project is the resolved working context shared by subcommands.
type project struct {
	root   string
	cfg    *config.Config
	logger *log.Logger
	out    io.Writer
}

func (o *globalOptions) load(out, errOut io.Writer) (*project, error) {
	root, err := filepath.Abs(o.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := o.configPath
	if path == "" {
		path = filepath.Join(root, config.FileName)
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if o.endpoint != "" {
		cfg.Classifier.Endpoint = o.endpoint
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(errOut, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	return &project{root: root, cfg: cfg, logger: logger, out: out}, nil
}

func (p *project) path(rel string) string {
	return config.Resolve(p.root, rel)
}

func (p *project) openCache() (*cache.Cache, error) {
	return cache.Open(p.path(p.cfg.Cache.Path))
}

// loadCatalog prefers the catalog file, then the cached copy, then the
// built-in chart. A file that loads is written through to the cache.
func (p *project) loadCatalog(c *cache.Cache) (*catalog.Store, error) {
	path := p.path(p.cfg.Catalog.Path)
	cat, err := catalog.LoadFile(path)
	switch {
	case err == nil:
		if err := c.SaveCatalog(cat); err != nil {
			return nil, fmt.Errorf("caching catalog: %w", err)
		}
		p.logger.Debug("loaded catalog", "path", path, "entries", cat.Len())
		return catalog.NewStore(cat), nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	cat, err = c.LoadCatalog()
	if err == nil {
		p.logger.Debug("using cached catalog", "entries", cat.Len())
		return catalog.NewStore(cat), nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		return nil, err
	}
	p.logger.Warn("no catalog file, using built-in chart", "path", path)
	return catalog.NewStore(catalog.Default()), nil
}

func (p *project) classifier(store *catalog.Store, c *cache.Cache) *classify.Classifier {
	opts := []classify.Option{
		classify.WithMappings(c),
		classify.WithConcurrency(p.cfg.Classifier.Concurrency),
		classify.WithLogger(p.logger),
	}
	if ep := p.cfg.Classifier.Endpoint; ep != "" {
		remote := classify.NewRemote(ep)
		remote.Attempts = p.cfg.Classifier.Attempts
		remote.BaseDelay = p.cfg.Classifier.BaseDelay
		remote.Timeout = p.cfg.Classifier.Timeout
		remote.Logger = p.logger
		opts = append(opts, classify.WithResolver(remote))
	}
	return classify.New(store, opts...)
}

func (p *project) pipeline(cls *classify.Classifier) *pipeline.Pipeline {
	pl := pipeline.New(cls, p.logger)
	pl.ScanRows = p.cfg.Ingest.HeaderScanRows
	pl.Extractor.SkipSummaryRows = p.cfg.Ingest.SkipSummaryRows
	return pl
}

// session bundles the open cache with a ready pipeline. Close releases the
// cache lock.
type session struct {
	*project
	cache    *cache.Cache
	pipeline *pipeline.Pipeline
}

func (p *project) openSession() (*session, error) {
	c, err := p.openCache()
	if err != nil {
		return nil, err
	}
	store, err := p.loadCatalog(c)
	if err != nil {
		c.Close()
		return nil, err
	}
	return &session{
		project:  p,
		cache:    c,
		pipeline: p.pipeline(p.classifier(store, c)),
	}, nil
}

func (s *session) Close() error {
	return s.cache.Close()
}

func now() time.Time {
	return time.Now().UTC()
}
