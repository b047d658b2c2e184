package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spektr-org/irisdash/config"
	"github.com/spektr-org/irisdash/dashboard"
	"github.com/spektr-org/irisdash/dataset"
)

// ============================================================================
// IRISDASH — Exploratory dashboard for the Iris dataset
// ============================================================================

const version = "0.3.0"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "Path to YAML config (default $CONFIG_PATH or "+config.DefaultPath+")")
	addr := flag.String("addr", "", "Listen address, overrides config (e.g. :8501)")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `irisdash — EDA dashboard for the Iris dataset

Usage:
  irisdash
  irisdash --addr :9000
  irisdash --config irisdash.yaml

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  CONFIG_PATH             Config file path
  IRISDASH_ADDR           Listen address
  IRISDASH_TITLE          Page title
  IRISDASH_PREVIEW_ROWS   Rows in the data preview
  IRISDASH_BINS           Fixed histogram bin count (0 = automatic)

Pages:
  /           Explorer: filters, distributions, pair chart, box plots, correlations
  /overview   Statistics and per-feature distributions of the full table
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("irisdash %s\n", version)
		os.Exit(0)
	}

	// ── Config ────────────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	// ── Data ──────────────────────────────────────────────────────────────
	ds, err := dataset.Load()
	if err != nil {
		fatalf("Failed to load dataset: %v", err)
	}

	srv, err := dashboard.New(cfg, ds)
	if err != nil {
		fatalf("Failed to create dashboard: %v", err)
	}
	httpSrv := srv.HTTPServer()

	// ── Serve ─────────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 irisdash %s listening on %s", version, cfg.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		log.Printf("🛑 Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			fatalf("Shutdown failed: %v", err)
		}
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
