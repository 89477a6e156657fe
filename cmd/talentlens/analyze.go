package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/talentlens/internal/adapter"
	"github.com/amishk599/talentlens/internal/document"
	"github.com/amishk599/talentlens/internal/filter"
	"github.com/amishk599/talentlens/internal/model"
	"github.com/amishk599/talentlens/internal/orchestrator"
	"github.com/amishk599/talentlens/internal/report"
	"github.com/amishk599/talentlens/internal/tui"
)

var (
	analyzeJD          string
	analyzeJDText      string
	analyzeFormat      string
	analyzeConcurrency int
	analyzeInteractive bool
	analyzeNoNotify    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze RESUME... (--jd FILE | --jd-text TEXT)",
	Short: "Analyze resumes against a job description",
	Long: "Uploads the job description once, then uploads and analyzes each resume.\n" +
		"The first failure aborts the batch; results are printed in input order.",
	Example: "  talentlens analyze alice.pdf bob.docx --jd role.pdf\n" +
		"  talentlens analyze resumes/*.pdf --jd-text \"Senior Go engineer, 5+ years\" --format json",
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeJD, "jd", "", "job description file (wins over --jd-text)")
	f.StringVar(&analyzeJDText, "jd-text", "", "job description as plain text")
	f.StringVar(&analyzeFormat, "format", report.FormatTable, "output format: table, detail or json")
	f.IntVar(&analyzeConcurrency, "concurrency", 0, "resumes processed at once (default: analysis.concurrency from config)")
	f.BoolVarP(&analyzeInteractive, "interactive", "i", false, "show live progress and browse results in a TUI")
	f.BoolVar(&analyzeNoNotify, "no-notify", false, "skip the configured notifier")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	switch analyzeFormat {
	case report.FormatTable, report.FormatDetail, report.FormatJSON:
	default:
		logger.Error("invalid --format", "format", analyzeFormat)
		os.Exit(1)
	}

	batch, err := loadBatch(args, analyzeJD, analyzeJDText)
	if err != nil {
		logger.Error("failed to read documents", "error", err)
		os.Exit(1)
	}

	concurrency := cfg.Analysis.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency = analyzeConcurrency
	}

	// The TUI owns the terminal while it runs; components log nowhere.
	componentLogger := logger
	if analyzeInteractive {
		componentLogger = discardLogger()
	}

	backend := buildBackend(cfg, componentLogger)
	docFilter := filter.NewDocumentFilter(cfg.Documents.AllowedExtensions, cfg.Documents.MaxFileSize, cfg.Documents.RequireText)
	orch := orchestrator.New(backend, docFilter, concurrency, componentLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = adapter.WithRequestID(ctx, "")
	logger.Debug("starting batch",
		"request_id", adapter.RequestIDFrom(ctx),
		"resumes", len(batch.Resumes),
		"concurrency", concurrency,
	)

	var results []model.AnalysisResult
	if analyzeInteractive {
		results, err = tui.RunLoader(ctx, func(lctx context.Context, observe orchestrator.Observer) ([]model.AnalysisResult, error) {
			orch.SetObserver(observe)
			return orch.Run(lctx, batch)
		})
	} else {
		orch.SetObserver(func(e orchestrator.Event) {
			logger.Debug("progress", "stage", e.Stage, "file", e.File, "index", e.Index, "total", e.Total)
		})
		results, err = orch.Run(ctx, batch)
	}
	if err != nil {
		logger.Error(err.Error(), "kind", model.KindOf(err))
		os.Exit(1)
	}

	if !analyzeNoNotify {
		if err := setupNotifier(cfg, logger).Notify(results); err != nil {
			logger.Warn("notification failed", "error", err)
		}
	}

	if analyzeInteractive {
		if err := tui.RunBrowser(results); err != nil {
			logger.Error("TUI error", "error", err)
			os.Exit(1)
		}
		return nil
	}

	if err := report.Write(os.Stdout, analyzeFormat, results); err != nil {
		logger.Error("failed to write results", "error", err)
		os.Exit(1)
	}
	return nil
}

// loadBatch reads resumes and the job description from disk. Missing inputs
// are left empty so the orchestrator reports them as a validation error.
func loadBatch(resumePaths []string, jdPath, jdText string) (model.Batch, error) {
	resumes, err := document.LoadAll(resumePaths)
	if err != nil {
		return model.Batch{}, err
	}

	batch := model.Batch{
		Resumes:        resumes,
		JobDescription: model.JobDescription{Text: jdText},
	}
	if jdPath != "" {
		doc, err := document.Load(jdPath)
		if err != nil {
			return model.Batch{}, fmt.Errorf("job description: %w", err)
		}
		batch.JobDescription.File = &doc
	}
	return batch, nil
}
