package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/vending-machine/internal/config"
	"github.com/Lixing-Zhang/vending-machine/internal/handlers"
	"github.com/Lixing-Zhang/vending-machine/internal/inventory"
	"github.com/Lixing-Zhang/vending-machine/internal/machine"
	"github.com/Lixing-Zhang/vending-machine/internal/service"
	"github.com/Lixing-Zhang/vending-machine/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting vending machine api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// The machine cannot run without a catalog, so any load error is fatal
	source := cfg.Inventory.Source
	if source == "" {
		source = inventory.DefaultResource + " (embedded)"
	}
	log.Info("loading inventory...", "source", source)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), time.Duration(cfg.Inventory.Timeout)*time.Second)
	loader := inventory.NewLoader(time.Duration(cfg.Inventory.Timeout)*time.Second, log)
	catalog, err := inventory.LoadCatalog(loadCtx, loader, cfg.Inventory.Source)
	cancelLoad()
	if err != nil {
		log.Error("failed to load inventory", "source", source, "error", err)
		os.Exit(1)
	}

	ordering, err := machine.ParseOrdering(cfg.Machine.Ordering)
	if err != nil {
		log.Error("invalid vend ordering", "error", err)
		os.Exit(1)
	}

	vm := machine.New(catalog,
		machine.WithBalance(cfg.Machine.InitialBalance),
		machine.WithOrdering(ordering),
	)
	log.Info("inventory loaded successfully",
		"items", len(catalog),
		"balance", vm.Balance().String(),
		"ordering", ordering.String(),
	)

	vendingService := service.NewVendingService(vm, log)
	r := handlers.NewRouter(vendingService, cfg.Auth, log)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
