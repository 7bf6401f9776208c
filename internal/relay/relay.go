package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-detector-client/internal/domain"
	"github.com/samvad-hq/samvad-detector-client/internal/logger"
	"github.com/samvad-hq/samvad-detector-client/pkg/publishers"
	"github.com/samvad-hq/samvad-detector-client/pkg/sources"
)

// Service runs analysis passes across the configured sources.
type Service struct {
	processor *SourceProcessor
	log       logger.Logger
}

// NewService wires a relay service. A nil extractor skips text extraction and
// a nil deduper analyzes every article on every pass.
func NewService(reg sources.FetcherRegistry, ext TextExtractor, analyzer Analyzer, pub EventPublisher, log logger.Logger, dedupe Deduper) *Service {
	log = logger.Ensure(log)
	return &Service{
		processor: NewSourceProcessor(reg, ext, analyzer, pub, log, dedupe),
		log:       log,
	}
}

// Run executes one pass over srcs and joins per-source failures.
func (s *Service) Run(ctx context.Context, srcs []sources.Source) error {
	if s == nil || s.processor == nil {
		return fmt.Errorf("relay service is not initialized")
	}
	if len(srcs) == 0 {
		return fmt.Errorf("no sources configured for relay")
	}

	errs := s.runAll(ctx, srcs)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, srcs []sources.Source) []error {
	errs := make([]error, 0, len(srcs))
	for _, src := range srcs {
		if ctx.Err() != nil {
			break
		}
		if err := s.processor.Process(ctx, src); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("source relay failed", "source_error", map[string]any{
				"source_id": src.ID,
				"error":     err.Error(),
			})
		}
	}
	return errs
}

// SourceProcessor handles a single source: resolve, dedupe, extract, analyze, publish.
type SourceProcessor struct {
	registry  sources.FetcherRegistry
	extractor TextExtractor
	analyzer  Analyzer
	publisher EventPublisher
	log       logger.Logger
	dedupe    Deduper
}

// NewSourceProcessor builds a processor from its collaborators.
func NewSourceProcessor(reg sources.FetcherRegistry, ext TextExtractor, analyzer Analyzer, pub EventPublisher, log logger.Logger, dedupe Deduper) *SourceProcessor {
	return &SourceProcessor{
		registry:  reg,
		extractor: ext,
		analyzer:  analyzer,
		publisher: pub,
		log:       logger.Ensure(log),
		dedupe:    dedupe,
	}
}

// Process runs one pass for src. Failures of individual articles are joined
// into the returned error; the remaining articles are still processed.
func (p *SourceProcessor) Process(ctx context.Context, src sources.Source) error {
	if p.registry == nil || p.analyzer == nil {
		return fmt.Errorf("source processor is not initialized")
	}

	fetcher, err := p.registry.FetcherFor(src)
	if err != nil {
		return fmt.Errorf("resolve fetcher for source %s: %w", src.ID, err)
	}

	articles, err := fetcher.Fetch(ctx, src)
	if err != nil {
		return fmt.Errorf("fetch source %s: %w", src.ID, err)
	}
	fetched := len(articles)

	articles = p.filterNewArticles(src, articles)
	if p.extractor != nil {
		var textless []domain.Article
		articles, textless = p.extractor.ExtractAll(ctx, src, articles)
		// A page without article text will not grow one on the next pass.
		for _, art := range textless {
			p.markAnalyzed(src, art)
		}
	}

	var errs []error
	published := 0
	for _, art := range articles {
		if ctx.Err() != nil {
			break
		}
		if err := p.analyzeAndPublish(ctx, src, art); err != nil {
			errs = append(errs, fmt.Errorf("article %s: %w", art.ID, err))
			continue
		}
		published++
	}

	p.log.InfoObj("source relay completed", "source_result", map[string]any{
		"source_id":          src.ID,
		"articles_fetched":   fetched,
		"articles_published": published,
		"articles_failed":    len(errs),
	})
	return errors.Join(errs...)
}

func (p *SourceProcessor) analyzeAndPublish(ctx context.Context, src sources.Source, art domain.Article) error {
	if strings.TrimSpace(art.Text) == "" {
		return fmt.Errorf("article has no text")
	}

	analysis, err := p.analyzer.PredictAndHighlight(ctx, art.Text)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if p.publisher != nil {
		evt := publishers.NewEvent(src.ID, src.Name, art, *analysis)
		if _, err := p.publisher.Publish(ctx, evt); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
	}

	p.markAnalyzed(src, art)
	return nil
}

func (p *SourceProcessor) markAnalyzed(src sources.Source, art domain.Article) {
	if p.dedupe == nil {
		return
	}
	if err := p.dedupe.MarkAnalyzed(art.ID); err != nil {
		p.log.WarnObj("mark analyzed failed", "dedupe_error", map[string]any{
			"source_id":  src.ID,
			"article_id": art.ID,
			"error":      err.Error(),
		})
	}
}

// filterNewArticles drops articles already analyzed. Lookup errors keep the
// article so a broken store does not silence the relay.
func (p *SourceProcessor) filterNewArticles(src sources.Source, articles []domain.Article) []domain.Article {
	if p.dedupe == nil {
		return articles
	}

	out := make([]domain.Article, 0, len(articles))
	for _, art := range articles {
		seen, err := p.dedupe.Analyzed(art.ID)
		if err != nil {
			p.log.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
				"source_id":  src.ID,
				"article_id": art.ID,
				"error":      err.Error(),
			})
			out = append(out, art)
			continue
		}
		if !seen {
			out = append(out, art)
		}
	}
	return out
}
