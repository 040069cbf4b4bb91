// Command go-solver plays Wordle with an entropy-based solver.
//
//	go-solver [serve]          HTTP API (default)
//	go-solver bench            solve every answer, print and store the stats
//	go-solver play <answer>    watch the solver play one game
//	go-solver assist           suggest guesses for a game played elsewhere
//	go-solver opener           rank first guesses over the whole dictionary
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/robalobadob/wordle/apps/go-solver/internal/config"
	"github.com/robalobadob/wordle/apps/go-solver/internal/database"
	"github.com/robalobadob/wordle/apps/go-solver/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	sc, err := solver.NewContext(words.Dictionary(), cfg.Weighting)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build solver context")
	}
	if err := cfg.Solver.Validate(sc); err != nil {
		log.Fatal().Err(err).Msg("invalid solver configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mode, args := "serve", os.Args[1:]
	if len(args) > 0 {
		mode, args = args[0], args[1:]
	}
	switch mode {
	case "serve":
		err = serve(ctx, cfg, sc)
	case "bench":
		err = runBench(ctx, cfg, sc)
	case "play":
		if len(args) != 1 {
			err = fmt.Errorf("usage: go-solver play <answer>")
			break
		}
		err = play(cfg, sc, args[0], os.Stdout)
	case "assist":
		err = assist(cfg, sc, os.Stdin, os.Stdout)
	case "opener":
		err = opener(ctx, cfg, sc, os.Stdout)
	default:
		err = fmt.Errorf("unknown command %q (want serve, bench, play, assist or opener)", mode)
	}
	if err != nil {
		stop()
		log.Fatal().Err(err).Str("mode", mode).Msg("exited")
	}
}

func serve(ctx context.Context, cfg config.Config, sc *solver.Context) error {
	db, err := database.OpenAndMigrate(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := httpserver.New(httpserver.Deps{
		Config:      cfg,
		Solver:      sc,
		Answers:     words.Answers(),
		Fingerprint: words.Fingerprint(),
		Sessions:    store.NewMemoryStore(),
		DB:          db,
	})
	go srv.SweepSessions(ctx, 10*time.Minute)

	dict, ans := words.Stats()
	log.Info().Str("port", cfg.Port).Int("dictionary", dict).Int("answers", ans).
		Str("opener", cfg.Solver.Opener).Msg("starting go-solver")
	return srv.Start(ctx, cfg.Addr())
}
