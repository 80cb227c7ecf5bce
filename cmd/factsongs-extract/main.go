// Command factsongs-extract drains every registered user's playlists and
// tracks from the Spotify Web API and lands both snapshot documents
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"factsongs/internal/core/version"
	"factsongs/internal/platform/config"
	"factsongs/internal/platform/logger"
	"factsongs/internal/services/pipeline"
)

func main() { os.Exit(run()) }

func run() int {
	var (
		fDate    = flag.String("date", "", "snapshot date YYYY-MM-DD, default today (UTC)")
		fEnv     = flag.String("env", ".env", "dotenv file merged under the process env")
		fVersion = flag.Bool("version", false, "print build info and exit")
	)
	flag.Parse()

	if *fVersion {
		fmt.Printf("%+v\n", version.Info("factsongs-extract"))
		return 0
	}
	if err := config.LoadDotenv(*fEnv); err != nil {
		fmt.Fprintf(os.Stderr, "dotenv: %v\n", err)
		return 2
	}
	opts := logger.FromEnv()
	opts.Component = "extract"
	logger.Init(opts)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	root.Require("CORE_SPOTIFY_CLIENT_ID", "CORE_SPOTIFY_CLIENT_SECRET")

	st, err := pipeline.OpenStore(ctx, root, "extract")
	if err != nil {
		l.Error().Err(err).Msg("store.Open failed")
		return 1
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	p, err := pipeline.New(ctx, root, st, pipeline.Extract)
	if err != nil {
		l.Error().Err(err).Msg("pipeline setup failed")
		return 1
	}
	defer func() { _ = p.Close(context.Background()) }()

	res, err := p.Extract.Runner().Run(ctx, *fDate)
	if err != nil {
		// the run already logged the failure with its run id
		return 1
	}
	l.Info().Str("run_id", res.RunID).Strs("keys", res.Keys).Msg("extract complete")
	return 0
}
