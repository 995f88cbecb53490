package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"fuelprices_dashboard/internal/app/di"
	archiveadapters "fuelprices_dashboard/internal/feature/archive/adapters"
	"fuelprices_dashboard/internal/feature/archive/domain/entity"
	archiveusecase "fuelprices_dashboard/internal/feature/archive/usecase"
	"fuelprices_dashboard/internal/platform/config"
	"fuelprices_dashboard/internal/platform/db"
	"fuelprices_dashboard/internal/platform/logger"
)

// runTimeout は1回の取得処理の上限です。
const runTimeout = 30 * time.Minute

func main() {
	once := flag.Bool("once", false, "run a single fetch even when archive.cron is set")
	kindsFlag := flag.String("kinds", "", "comma separated kinds (WEEKLY,DAILY_COUNTRY,DAILY_PREFECTURE); default all")
	list := flag.String("list", "", "print the ledger entries of a kind and exit")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateArchive(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	logger.Setup(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	kinds, err := parseKinds(*kindsFlag)
	if err != nil {
		slog.Error("invalid -kinds", "error", err)
		os.Exit(2)
	}

	gdb, err := db.Open(cfg.Database, &archiveadapters.ArchiveFileModel{})
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *list != "" {
		kind, ok := entity.ParseDataKind(*list)
		if !ok {
			slog.Error("unknown kind", "kind", *list)
			os.Exit(2)
		}
		files, err := archiveadapters.NewLedger(gdb).List(ctx, kind)
		if err != nil {
			slog.Error("failed to list ledger", "error", err)
			os.Exit(1)
		}
		for _, f := range files {
			fmt.Printf("%s\t%d\t%s\n", f.FetchedAt.Format(time.RFC3339), f.Size, f.Path)
		}
		return
	}

	uc := di.NewFetchUsecase(cfg.Archive, gdb)

	if cfg.Archive.Cron == "" || *once {
		if err := run(ctx, uc, kinds); err != nil {
			os.Exit(1)
		}
		return
	}

	// スケジュール実行
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cfg.Archive.Cron, func() {
		_ = run(ctx, uc, kinds)
	}); err != nil {
		slog.Error("failed to register cron task", "cron", cfg.Archive.Cron, "error", err)
		os.Exit(1)
	}
	c.Start()
	slog.Info("scheduler started", "cron", cfg.Archive.Cron)

	<-ctx.Done()
	slog.Info("shutting down, waiting for running fetch")
	<-c.Stop().Done()
	slog.Info("scheduler stopped")
}

func run(ctx context.Context, uc *archiveusecase.FetchUsecase, kinds []entity.DataKind) error {
	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	start := time.Now()
	summaries, err := uc.FetchAll(runCtx, kinds)
	if err != nil {
		slog.Error("archive fetch aborted", "error", err)
		return err
	}
	var downloaded, failed int
	for _, s := range summaries {
		downloaded += s.Downloaded
		failed += s.Failed
	}
	slog.Info("archive fetch ok", "downloaded", downloaded, "failed", failed, "elapsed", time.Since(start))
	return nil
}

func parseKinds(s string) ([]entity.DataKind, error) {
	if strings.TrimSpace(s) == "" {
		return entity.DataKinds(), nil
	}
	var kinds []entity.DataKind
	for _, p := range strings.Split(s, ",") {
		k, ok := entity.ParseDataKind(strings.TrimSpace(p))
		if !ok {
			return nil, fmt.Errorf("unknown kind %q", p)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
