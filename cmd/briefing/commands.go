package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/poiesic/briefing"
	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/core"
	"github.com/poiesic/briefing/ingest"
	"github.com/poiesic/briefing/pipeline"
	"github.com/poiesic/briefing/reindex"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}
	period, err := core.ParsePeriod(c.String("period"))
	if err != nil {
		return err
	}

	svc, err := briefing.NewService(c.String("db"), serviceOptions(c)...)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	result, err := svc.Search(c.Context, pipeline.Request{
		Query:           query,
		Locale:          c.String("locale"),
		IncludeExternal: c.Bool("live"),
		Period:          period,
	})
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(c.App.Writer, result)
	return nil
}

func printResult(w io.Writer, result *pipeline.Result) {
	if result.Summary != nil && result.Summary.Text != "" {
		fmt.Fprintf(w, "%s\n\n", result.Summary.Text)
	}
	fmt.Fprintf(w, "Results: %d (breaking %d, new %d, improvement %d)\n",
		result.Stats.Total, result.Stats.Breaking, result.Stats.NewFeature, result.Stats.Improvement)
	fmt.Fprintf(w, "Sources: local %d, learn %d, tenant %d\n\n",
		result.SearchSources.Local, result.SearchSources.Learn, result.SearchSources.Tenant)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEVERITY\tPRODUCT\tDATE\tTITLE")
	for _, u := range result.Updates {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Severity, u.Product, u.Date, u.Title)
	}
	tw.Flush()

	if len(result.Suggestions) > 0 {
		fmt.Fprintln(w)
		for _, s := range result.Suggestions {
			fmt.Fprintf(w, "  → %s\n", s)
		}
	}
	if result.Trace != nil {
		fmt.Fprintln(w)
		for _, stage := range result.Trace.Stages {
			fmt.Fprintf(w, "[%s] %s %dms %s\n", stage.Status, stage.Stage, stage.DurationMs, stage.Details)
		}
	}
}

func importCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one seed file is required")
	}

	svc, err := briefing.NewService(c.String("db"), briefing.WithLearn(false), briefing.WithCatalogFile(c.String("catalog")))
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	importer, err := svc.NewImporter(
		ingest.WithPoolSize(c.Int("pool-size")),
		ingest.WithBatchSize(c.Int("batch-size")),
		ingest.WithForce(c.Bool("force")),
	)
	if err != nil {
		return err
	}
	defer importer.Release()

	report, err := importer.ImportFiles(c.Context, c.Args().Slice()...)
	if err != nil {
		return err
	}
	for _, f := range report.Files {
		switch {
		case f.Err != nil:
			fmt.Fprintf(c.App.ErrWriter, "%s: failed: %v\n", f.Path, f.Err)
		case f.Skipped:
			fmt.Fprintf(c.App.Writer, "%s: unchanged, skipped\n", f.Path)
		default:
			fmt.Fprintf(c.App.Writer, "%s: imported %d records (%d invalid)\n", f.Path, f.Imported, f.Invalid)
		}
	}
	return report.Err()
}

func reindexCommand(c *cli.Context) error {
	svc, err := briefing.NewService(c.String("db"), briefing.WithLearn(false), briefing.WithCatalogFile(c.String("catalog")))
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	reindexer, err := reindex.NewReindexer(svc.UpdateRepository(), svc.Catalog(), &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}, c.App.ErrWriter)
	if err != nil {
		return err
	}

	stats, err := reindexer.Run(c.Context)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Records: %d, updated: %d\n", stats.Total, stats.Updated)
	for product, n := range stats.UnknownProducts {
		fmt.Fprintf(c.App.Writer, "  product %q not in catalog (%d records)\n", product, n)
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	opts := append(serviceOptions(c), rateLimitOptions(c)...)
	svc, err := briefing.NewService(c.String("db"), opts...)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	handler, err := svc.Handler()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              c.String("addr"),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func productsCommand(c *cli.Context) error {
	cat := catalog.Default()
	if path := c.String("catalog"); path != "" {
		var err error
		if cat, err = catalog.LoadFile(path); err != nil {
			return err
		}
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(cat.Products())
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFAMILY")
	for _, p := range cat.Products() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, p.Family)
	}
	return tw.Flush()
}
