// indexpilot suggests Algolia index configuration from sample records using
// an LLM, and can diff or apply the suggestion against a live index.
//
// Usage:
//
//	indexpilot suggest --file records.json
//	ALGOLIA_APP_ID=... ALGOLIA_ADMIN_KEY=... indexpilot suggest --from-index --index products
//	indexpilot apply --file records.json --index products --yes
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/indexpilot/indexpilot/internal/advisor"
	"github.com/indexpilot/indexpilot/internal/ai"
	"github.com/indexpilot/indexpilot/internal/ai/gemini"
	"github.com/indexpilot/indexpilot/internal/ai/mock"
	"github.com/indexpilot/indexpilot/internal/ai/openai"
	"github.com/indexpilot/indexpilot/internal/algolia"
	"github.com/indexpilot/indexpilot/internal/config"
	"github.com/indexpilot/indexpilot/internal/logger"
	"github.com/indexpilot/indexpilot/internal/output"
	"github.com/indexpilot/indexpilot/internal/records"
	"github.com/indexpilot/indexpilot/internal/server"
	"github.com/indexpilot/indexpilot/internal/version"
)

func main() {
	app := &cli.App{
		Name:  "indexpilot",
		Usage: "AI-assisted Algolia index configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "suggest",
				Usage:  "Suggest index settings from sample records",
				Action: suggestCommand,
				Flags: append(recordSourceFlags(),
					&cli.StringFlag{
						Name:  "sections",
						Usage: "Comma-separated sections to run (searchable, ranking, facets, replicas)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the suggestion as JSON",
					},
				),
			},
			{
				Name:   "diff",
				Usage:  "Compare a suggestion against the live index settings",
				Action: diffCommand,
				Flags: append(recordSourceFlags(),
					&cli.StringFlag{
						Name:  "sections",
						Usage: "Comma-separated sections to run",
					},
				),
			},
			{
				Name:   "apply",
				Usage:  "Suggest index settings and write them to the live index",
				Action: applyCommand,
				Flags: append(recordSourceFlags(),
					&cli.StringFlag{
						Name:  "sections",
						Usage: "Comma-separated sections to run",
					},
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Apply without the confirmation prompt",
					},
				),
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP suggestion API",
				Action: serveCommand,
			},
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(c *cli.Context) error {
					fmt.Printf("indexpilot %s (%s)\n", version.Version, version.Commit)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func recordSourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Records file (JSON array or NDJSON), '-' for stdin",
		},
		&cli.BoolFlag{
			Name:  "from-index",
			Usage: "Browse sample records from the live Algolia index",
		},
		&cli.StringFlag{
			Name:  "index",
			Usage: "Algolia index name (overrides config)",
		},
	}
}

// setup loads config and builds the logger shared by every command.
func setup(c *cli.Context, jsonLogs bool) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, nil, err
	}
	if idx := c.String("index"); idx != "" {
		cfg.Algolia.IndexName = idx
	}

	level := cfg.Logging.Level
	if l := c.String("log-level"); l != "" {
		level = l
	}
	log, err := logger.New(level, jsonLogs)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

// buildCompleter constructs the configured model provider.
func buildCompleter(cfg config.Config) (ai.Completer, error) {
	switch cfg.AI.Provider {
	case "gemini":
		return gemini.NewClient(cfg.AI.GeminiAPIKey, cfg.AI.Model), nil
	case "openai":
		return openai.NewClient(cfg.AI.OpenAIAPIKey, cfg.AI.Model, cfg.AI.OpenAIBaseURL), nil
	case "mock":
		return mock.New(`{"explanation": "mock provider"}`), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}
}

func newAdvisor(cfg config.Config, log *zap.Logger) (*advisor.Advisor, error) {
	completer, err := buildCompleter(cfg)
	if err != nil {
		return nil, err
	}
	adv := advisor.New(completer, log)
	adv.SampleLimit = cfg.Sample.Limit
	return adv, nil
}

// gatherRecords resolves the record source flags to a sample slice.
func gatherRecords(ctx context.Context, c *cli.Context, cfg config.Config, log *zap.Logger) ([]records.Record, error) {
	switch {
	case c.Bool("from-index"):
		if err := cfg.RequireAlgolia(); err != nil {
			return nil, err
		}
		client, err := algolia.NewClient(algolia.Config{
			AppID:     cfg.Algolia.AppID,
			APIKey:    cfg.Algolia.AdminKey,
			IndexName: cfg.Algolia.IndexName,
		}, log)
		if err != nil {
			return nil, err
		}
		return client.BrowseSample(ctx, cfg.Sample.Limit)
	case c.String("file") != "":
		return records.LoadFile(c.String("file"))
	default:
		return nil, fmt.Errorf("either --file or --from-index is required")
	}
}

func runSuggestion(ctx context.Context, c *cli.Context, cfg config.Config, log *zap.Logger) (*advisor.Suggestion, error) {
	sections, err := advisor.ParseSections(c.String("sections"))
	if err != nil {
		return nil, err
	}
	recs, err := gatherRecords(ctx, c, cfg, log)
	if err != nil {
		return nil, err
	}
	adv, err := newAdvisor(cfg, log)
	if err != nil {
		return nil, err
	}
	return adv.Suggest(ctx, recs, sections)
}

func suggestCommand(c *cli.Context) error {
	cfg, log, err := setup(c, false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	suggestion, err := runSuggestion(c.Context, c, cfg, log)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(suggestion)
	}

	printer := output.NewPrinter(os.Stdout)
	printer.Suggestion(suggestion)
	printer.Cost(suggestion.Model, suggestion.Usage)
	return nil
}

func diffCommand(c *cli.Context) error {
	cfg, log, err := setup(c, false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.RequireAlgolia(); err != nil {
		return err
	}
	client, err := algolia.NewClient(algolia.Config{
		AppID:     cfg.Algolia.AppID,
		APIKey:    cfg.Algolia.AdminKey,
		IndexName: cfg.Algolia.IndexName,
	}, log)
	if err != nil {
		return err
	}

	suggestion, err := runSuggestion(c.Context, c, cfg, log)
	if err != nil {
		return err
	}
	current, err := client.FetchSettings(c.Context)
	if err != nil {
		return err
	}

	printer := output.NewPrinter(os.Stdout)
	printer.Diff(client.IndexName(), algolia.DiffSettings(client.IndexName(), current, suggestion))
	printer.Cost(suggestion.Model, suggestion.Usage)
	return nil
}

func applyCommand(c *cli.Context) error {
	cfg, log, err := setup(c, false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.RequireAlgolia(); err != nil {
		return err
	}
	client, err := algolia.NewClient(algolia.Config{
		AppID:     cfg.Algolia.AppID,
		APIKey:    cfg.Algolia.AdminKey,
		IndexName: cfg.Algolia.IndexName,
	}, log)
	if err != nil {
		return err
	}

	suggestion, err := runSuggestion(c.Context, c, cfg, log)
	if err != nil {
		return err
	}

	printer := output.NewPrinter(os.Stdout)
	printer.Suggestion(suggestion)

	if !c.Bool("yes") && !confirm(fmt.Sprintf("Apply these settings to %q?", client.IndexName())) {
		fmt.Println("Aborted.")
		return nil
	}

	if err := client.ApplySuggestion(c.Context, suggestion); err != nil {
		return err
	}
	printer.ApplySummary(client.IndexName(), suggestion)
	printer.Cost(suggestion.Model, suggestion.Usage)
	return nil
}

func serveCommand(c *cli.Context) error {
	cfg, log, err := setup(c, true)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	adv, err := newAdvisor(cfg, log)
	if err != nil {
		return err
	}

	srv := server.New(adv, server.Config{
		Port:           cfg.HTTP.Port,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		BasicAuthUsers: cfg.HTTP.BasicAuthUsers,
	}, log)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
