package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexbotov/rnglab/internal/api"
	"github.com/alexbotov/rnglab/internal/audit"
	"github.com/alexbotov/rnglab/internal/auth"
	"github.com/alexbotov/rnglab/internal/bench"
	"github.com/alexbotov/rnglab/internal/config"
	"github.com/alexbotov/rnglab/internal/database"
	"github.com/alexbotov/rnglab/internal/generator"
)

// defaultSeeds are the seeds used by the command-line benchmark, one per
// built-in generator.
var defaultSeeds = map[string]uint64{
	generator.NameLCG:        1234,
	generator.NameXORShift32: 9876,
	generator.NameMWC:        13579,
}

func main() {
	serve := flag.Bool("serve", false, "run the HTTP evaluation service instead of the command-line benchmark")
	hashKey := flag.String("hash-key", "", "print the bcrypt hash of the given operator key and exit")
	flag.Parse()

	cfg := config.Load()

	if *hashKey != "" {
		hash, err := auth.HashOperatorKey(*hashKey)
		if err != nil {
			log.Fatalf("failed to hash operator key: %v", err)
		}
		fmt.Println(hash)
		return
	}

	if *serve {
		runServer(cfg)
		return
	}

	runBenchmark(cfg)
}

// runBenchmark evaluates the built-in generators over the configured size
// ladder and prints one table per generator.
func runBenchmark(cfg *config.Config) {
	registry := generator.NewRegistry()

	var sources []bench.Seeded
	names := registry.Names()
	for _, name := range names {
		seed := defaultSeeds[name]
		src, err := registry.New(name, seed)
		if err != nil {
			log.Fatalf("failed to construct generator %s: %v", name, err)
		}
		sources = append(sources, bench.Seeded{Source: src, Seed: seed})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reports, err := bench.RunAll(ctx, sources, bench.FromConfig(cfg.Bench))
	if err != nil {
		log.Fatalf("benchmark failed: %v", err)
	}

	for i, report := range reports {
		if i > 0 {
			fmt.Println()
		}
		if err := bench.WriteTable(os.Stdout, report); err != nil {
			log.Fatalf("failed to write report: %v", err)
		}
	}
}

// runServer starts the HTTP evaluation service.
func runServer(cfg *config.Config) {
	var auditSvc *audit.Service

	if cfg.Database.DSN != "" {
		db, err := database.New(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			log.Fatalf("failed to connect to audit database: %v", err)
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			log.Fatalf("failed to migrate audit database: %v", err)
		}
		auditSvc = audit.New(db.DB)
		log.Println("audit persistence enabled")
	} else {
		log.Println("audit persistence disabled (RNGLAB_DB_DSN not set)")
	}

	authSvc := auth.New(cfg, auditSvc)
	handler := api.New(cfg, authSvc, auditSvc, generator.NewRegistry())

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler.SetupRouter(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("rnglab evaluation service listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("shutting down")
	if err := server.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
