package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-detector-client/internal/config"
	"github.com/samvad-hq/samvad-detector-client/internal/extractor"
	"github.com/samvad-hq/samvad-detector-client/internal/logger"
	"github.com/samvad-hq/samvad-detector-client/internal/relay"
	"github.com/samvad-hq/samvad-detector-client/internal/storage"
	"github.com/samvad-hq/samvad-detector-client/pkg/detector"
	"github.com/samvad-hq/samvad-detector-client/pkg/httpclient"
	"github.com/samvad-hq/samvad-detector-client/pkg/publishers"
	"github.com/samvad-hq/samvad-detector-client/pkg/sources"
)

// Relay is the long-running runtime. It periodically analyzes articles from
// the configured sources and publishes the results, and owns the lifecycle of
// the dedupe store and publisher clients.
type Relay struct {
	cfg       *config.Config
	sourceReg *sources.Registry
	fanout    *publishers.Fanout
	service   *relay.Service
	interval  time.Duration
	log       logger.Logger
	store     storage.Store
}

// NewRelay builds a relay runtime from config files.
func NewRelay(ctx context.Context, cfg *config.Config, log logger.Logger) (*Relay, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := detector.New(cfg.APIURL,
		detector.WithHTTPClient(httpclient.NewRestyClient(cfg.RequestTimeout)),
		detector.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("init detector client: %w", err)
	}

	sourceReg, err := sources.LoadRegistry(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("load sources registry: %w", err)
	}
	sourceList := sourceReg.All()
	sourceIDs := make([]string, 0, len(sourceList))
	for _, s := range sourceList {
		sourceIDs = append(sourceIDs, s.ID)
	}
	log.InfoObj("sources registry loaded", "sources_meta", map[string]any{
		"count": len(sourceIDs),
		"ids":   sourceIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		TTL:             cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"ttl_seconds":              int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	service := relay.NewService(
		sources.DefaultFetcherRegistry(nil),
		extractor.New(nil, log),
		client,
		fanout,
		log,
		store,
	)

	return &Relay{
		cfg:       cfg,
		sourceReg: sourceReg,
		fanout:    fanout,
		service:   service,
		interval:  cfg.RelayInterval,
		log:       log,
		store:     store,
	}, nil
}

// Run starts the relay loop until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil || r.service == nil {
		return fmt.Errorf("relay is not initialized")
	}
	defer r.closeStore()
	defer r.closePublishers()

	srcs := r.sourceReg.All()
	r.log.InfoObj("relay loop starting", "relay_state", map[string]any{
		"sources_count":    len(srcs),
		"publishers_count": r.fanout.Size(),
		"relay_interval":   r.interval.String(),
		"api_url":          r.cfg.APIURL,
	})

	if err := r.runOnce(ctx, srcs); err != nil {
		r.log.ErrorObj("initial relay pass failed", "error", err.Error())
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("relay loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := r.runOnce(ctx, srcs); err != nil {
				r.log.ErrorObj("scheduled relay pass failed", "error", err.Error())
			}
		}
	}
}

// runOnce performs a single pass across all sources.
func (r *Relay) runOnce(ctx context.Context, srcs []sources.Source) error {
	start := time.Now()
	r.log.InfoObj("relay pass started", "relay_meta", map[string]any{
		"sources_count": len(srcs),
		"started_at":    start.UTC(),
	})
	if err := r.service.Run(ctx, srcs); err != nil {
		return err
	}
	r.log.InfoObj("relay pass completed", "relay_meta", map[string]any{
		"sources_count": len(srcs),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

func (r *Relay) closePublishers() {
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publishers close failed", "error", err.Error())
	}
}

// closeStore closes the storage backend, logging any errors encountered.
func (r *Relay) closeStore() {
	if r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
