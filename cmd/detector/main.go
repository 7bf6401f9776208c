package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/samvad-hq/samvad-detector-client/internal/config"
	"github.com/samvad-hq/samvad-detector-client/internal/domain"
	"github.com/samvad-hq/samvad-detector-client/internal/extractor"
	"github.com/samvad-hq/samvad-detector-client/internal/logger"
	"github.com/samvad-hq/samvad-detector-client/pkg/detector"
	"github.com/samvad-hq/samvad-detector-client/pkg/httpclient"
	"github.com/samvad-hq/samvad-detector-client/pkg/present"
	"github.com/samvad-hq/samvad-detector-client/pkg/sources"
	"github.com/spf13/pflag"
)

const endpointBoth = "both"

func main() {
	if err := start(); err != nil {
		fmt.Fprintf(os.Stderr, "detector: %v\n", err)
		os.Exit(1)
	}
}

func start() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, log, os.Args[1:], os.Stdin, os.Stdout)
}

type options struct {
	endpoint string
	url      string
	html     string
	apiURL   string
	timeout  time.Duration
	text     string
}

func parseFlags(cfg *config.Config, args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("detector", pflag.ContinueOnError)
	fs.StringVarP(&opts.endpoint, "endpoint", "e", endpointBoth, "predict, highlight, fact-check or both")
	fs.StringVar(&opts.url, "url", "", "analyze the article at this URL instead of text arguments")
	fs.StringVar(&opts.html, "html", "", "write an HTML report to this file (endpoint both or fact-check)")
	fs.StringVar(&opts.apiURL, "api-url", cfg.APIURL, "backend base URL")
	fs.DurationVar(&opts.timeout, "timeout", cfg.RequestTimeout, "per-request timeout (0 disables)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.endpoint = strings.ToLower(strings.TrimSpace(opts.endpoint))
	switch detector.Endpoint(opts.endpoint) {
	case detector.EndpointPredict, detector.EndpointHighlight, detector.EndpointFactCheck, endpointBoth:
	default:
		return options{}, fmt.Errorf("unknown endpoint %q", opts.endpoint)
	}
	if opts.html != "" && opts.endpoint != endpointBoth && opts.endpoint != string(detector.EndpointFactCheck) {
		return options{}, errors.New("--html requires --endpoint both or fact-check")
	}
	if opts.url != "" && fs.NArg() > 0 {
		return options{}, errors.New("--url and text arguments are mutually exclusive")
	}
	opts.text = strings.Join(fs.Args(), " ")
	return opts, nil
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger, args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(cfg, args)
	if err != nil {
		return err
	}

	text, err := resolveText(ctx, opts, log, stdin)
	if err != nil {
		return err
	}

	client, err := detector.New(opts.apiURL,
		detector.WithHTTPClient(httpclient.NewRestyClient(opts.timeout)),
		detector.WithLogger(log),
	)
	if err != nil {
		return err
	}

	if opts.endpoint != endpointBoth {
		raw, err := client.Call(ctx, detector.Endpoint(opts.endpoint), text)
		if err != nil {
			return err
		}
		if err := writeJSON(stdout, raw); err != nil {
			return err
		}
		if opts.html != "" {
			report, err := factCheckReport(raw)
			if err != nil {
				return err
			}
			return writeReport(opts.html, report)
		}
		return nil
	}

	analysis, err := client.PredictAndHighlight(ctx, text)
	if err != nil {
		return err
	}
	if err := writeJSON(stdout, analysis); err != nil {
		return err
	}
	if opts.html != "" {
		report, err := analysisReport(analysis)
		if err != nil {
			return err
		}
		return writeReport(opts.html, report)
	}
	return nil
}

// resolveText picks the text to analyze: the extracted page for --url, the
// positional arguments, or stdin when there are none.
func resolveText(ctx context.Context, opts options, log logger.Logger, stdin io.Reader) (string, error) {
	if opts.url != "" {
		src := sources.Source{ID: "cli", Type: sources.TypeURL, URL: opts.url}
		art, err := extractor.New(nil, log).Extract(ctx, src, domain.Article{ID: sources.HashID(opts.url), URL: opts.url})
		if err != nil {
			return "", fmt.Errorf("extract %s: %w", opts.url, err)
		}
		return art.Text, nil
	}
	if opts.text != "" {
		return opts.text, nil
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(raw), "\r\n"), nil
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

func analysisReport(analysis *detector.Analysis) (present.Report, error) {
	pred, err := detector.DecodePrediction(analysis.Prediction)
	if err != nil {
		return present.Report{}, err
	}
	hl, err := detector.DecodeHighlights(analysis.Highlight)
	if err != nil {
		return present.Report{}, err
	}

	report := present.Report{
		Label:     pred.Result.Label,
		FakeScore: pred.ConfidenceFake,
		Tokens:    make([]present.Token, 0, len(hl.Highlights)),
	}
	for _, tok := range hl.Highlights {
		report.Tokens = append(report.Tokens, present.Token{Text: tok.Token, Weight: tok.ScoreNormalized})
	}
	return report, nil
}

// factCheckReport renders the fact-check verdict: its score and the summary
// written by the backend.
func factCheckReport(raw json.RawMessage) (present.Report, error) {
	fc, err := detector.DecodeFactCheck(raw)
	if err != nil {
		return present.Report{}, err
	}
	return present.Report{
		Label:     "fact check",
		FakeScore: fc.FakeScore,
		Summary:   fc.SummaryAnalysis,
	}, nil
}

func writeReport(path string, report present.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := present.RenderReport(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
