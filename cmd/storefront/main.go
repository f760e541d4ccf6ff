package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	cartapp "github.com/riceschool/storefront/internal/cart/app"
	catalogapp "github.com/riceschool/storefront/internal/catalog/app"
	catalogsheets "github.com/riceschool/storefront/internal/catalog/infra/sheets"
	checkoutapp "github.com/riceschool/storefront/internal/checkout/app"
	checkoutdomain "github.com/riceschool/storefront/internal/checkout/domain"
	"github.com/riceschool/storefront/internal/notify"
	orderapp "github.com/riceschool/storefront/internal/order/app"
	ordersheets "github.com/riceschool/storefront/internal/order/infra/sheets"
	"github.com/riceschool/storefront/pkg/config"
	"github.com/riceschool/storefront/pkg/logger"
	"github.com/riceschool/storefront/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// Pipeline wiring, leaves first.
	source := catalogsheets.NewSource(cfg.Sheets, log)
	catalogSvc := catalogapp.NewService(source, log)
	cartStore := cartapp.NewStore()
	formStore := checkoutapp.NewFormStore()
	poster := ordersheets.NewPoster(cfg.Sheets, log)
	submitter := orderapp.NewSubmitter(poster, log)
	center := notify.NewCenter(log)

	bank := checkoutdomain.BankTransfer{
		BankName:      cfg.Payment.BankName,
		BankCode:      cfg.Payment.BankCode,
		AccountNumber: cfg.Payment.AccountNumber,
	}
	srv := newServer(log, catalogSvc, cartStore, formStore, submitter, center, bank)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		refreshLoop(ctx, catalogSvc, center, cfg.Sheets.RefreshInterval)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutdown requested")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("exited with error", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}

// refreshLoop loads the catalog once at startup and then on the configured
// interval. A failed refresh keeps whatever snapshot is current and surfaces
// a non-blocking toast; it is never fatal.
func refreshLoop(ctx context.Context, catalogSvc *catalogapp.Service, center *notify.Center, interval time.Duration) {
	refresh := func() {
		if err := catalogSvc.Refresh(ctx); err != nil {
			center.Toast(notify.LevelError, "could not load products, please try again later")
		}
	}

	refresh()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
