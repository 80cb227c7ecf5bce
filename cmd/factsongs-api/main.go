// Command factsongs-api serves the HTTP trigger surface for extract and
// transform runs, plus the run ledger, readiness and metrics
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"factsongs/internal/platform/config"
	"factsongs/internal/platform/logger"
	phttp "factsongs/internal/platform/net/http"
	"factsongs/internal/services/api"
	"factsongs/internal/services/pipeline"
)

func main() { os.Exit(run()) }

func run() int {
	fEnv := flag.String("env", ".env", "dotenv file merged under the process env")
	flag.Parse()

	if err := config.LoadDotenv(*fEnv); err != nil {
		fmt.Fprintf(os.Stderr, "dotenv: %v\n", err)
		return 2
	}
	opts := logger.FromEnv()
	opts.Component = "api"
	logger.Init(opts)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	st, err := pipeline.OpenStore(ctx, root, "api")
	if err != nil {
		l.Error().Err(err).Msg("store.Open failed")
		return 1
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	p, err := pipeline.New(ctx, root, st, pipeline.Extract|pipeline.Transform)
	if err != nil {
		l.Error().Err(err).Msg("pipeline setup failed")
		return 1
	}
	defer func() { _ = p.Close(context.Background()) }()

	// reads CORE_API_PORT, CORE_API_READ_TIMEOUT, CORE_API_WRITE_TIMEOUT
	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{Config: apiCfg, Pipeline: p})

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		return 1
	}
	return 0
}
