package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/TwiN/go-color"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/robalobadob/wordle/apps/go-solver/internal/bench"
	"github.com/robalobadob/wordle/apps/go-solver/internal/config"
	"github.com/robalobadob/wordle/apps/go-solver/internal/database"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func isTTY(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }

// colored reports whether w is a terminal worth painting.
func colored(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTTY(f)
}

func runBench(ctx context.Context, cfg config.Config, sc *solver.Context) error {
	opts := bench.Options{Workers: cfg.BenchWorkers, MaxTurns: cfg.MaxTurns}
	if isTTY(os.Stderr) {
		opts.Progress = os.Stderr
	}
	rep, err := bench.Run(ctx, sc, cfg.Solver, words.Answers(), opts)
	if err != nil {
		return err
	}

	fmt.Printf("opener %s, %d games in %s\n", rep.Opener, len(rep.Games), rep.Elapsed.Round(time.Millisecond))
	for turns, n := range rep.Histogram() {
		if n > 0 {
			fmt.Printf("%3d turns: %d\n", turns, n)
		}
	}
	for _, st := range rep.Stats() {
		fmt.Printf("%-10s %s\n", st.Name, st.Value)
	}

	db, err := database.OpenAndMigrate(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	id, err := bench.NewStore(db).Save(ctx, words.Fingerprint(), rep)
	if err != nil {
		return fmt.Errorf("save benchmark: %w", err)
	}
	log.Info().Str("run", id).Msg("benchmark stored")
	return nil
}

// play prints the solver's game on answer, one row per turn.
func play(cfg config.Config, sc *solver.Context, answer string, out io.Writer) error {
	answer = strings.ToLower(answer)
	if _, ok := sc.Lookup(answer); !ok {
		return fmt.Errorf("%q is not in the dictionary", answer)
	}
	s, err := solver.New(sc, cfg.Solver)
	if err != nil {
		return err
	}
	paint := colored(out)
	res := game.Play(answer, s, game.Options{
		MaxTurns: cfg.MaxTurns,
		Allowed:  func(w string) bool { _, ok := sc.Lookup(w); return ok },
		OnTurn: func(turn int, rec feedback.Record) {
			fmt.Fprintf(out, "%2d %s\n", turn, game.Render(rec, paint))
		},
	})
	if res.Won {
		fmt.Fprintf(out, "solved in %d\n", res.Turns)
	} else {
		fmt.Fprintf(out, "gave up after %d\n", res.Turns)
	}
	return nil
}

const assistHelp = `Enter the colors you saw for the suggested word, e.g. "gybbb"
(g = green, y = yellow, b = gray), or "word gybbb" if you played another
word. An empty line quits.`

// assist suggests a guess, reads the feedback for it, and repeats until the
// answer is found. Malformed or contradictory input is reported and asked
// for again.
func assist(cfg config.Config, sc *solver.Context, in io.Reader, out io.Writer) error {
	s, err := solver.New(sc, cfg.Solver)
	if err != nil {
		return err
	}
	paint := colored(out)
	sugg := func(w string) string {
		if paint {
			return color.Ize(color.Bold, w)
		}
		return w
	}

	fmt.Fprintln(out, assistHelp)
	lines := bufio.NewScanner(in)
	var history feedback.History
	for {
		guess := s.Guess(history)
		fmt.Fprintf(out, "try %s (%d left)\n> ", sugg(guess), s.Candidates().Len())

		rec, err := readRecord(lines, s, guess, out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		history = append(history, rec)
		fmt.Fprintln(out, game.Render(rec, paint))
		if rec.Mask.Solved() {
			fmt.Fprintf(out, "solved in %d\n", len(history))
			return nil
		}
	}
}

// readRecord reads lines until one parses into a record consistent with the
// solver's candidates. io.EOF means the user quit.
func readRecord(in *bufio.Scanner, s *solver.Solver, guess string, out io.Writer) (feedback.Record, error) {
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "" {
			return feedback.Record{}, io.EOF
		}
		word, maskText := guess, line
		if fields := strings.Fields(line); len(fields) == 2 && len(fields[0]) == feedback.WordLen {
			word, maskText = strings.ToLower(fields[0]), fields[1]
		}
		mask, err := feedback.ParseMask(maskText)
		if err != nil {
			fmt.Fprintf(out, "%v; try again\n> ", err)
			continue
		}
		if !words.IsWord(word) {
			fmt.Fprintf(out, "%q is not a word; try again\n> ", word)
			continue
		}
		rec := feedback.Record{Word: word, Mask: mask}
		if s.Candidates().CountMatching(rec) == 0 {
			fmt.Fprintf(out, "no word fits %s on %s; check the colors\n> ", mask, word)
			continue
		}
		return rec, nil
	}
	if err := in.Err(); err != nil {
		return feedback.Record{}, err
	}
	return feedback.Record{}, io.EOF
}

// opener ranks first guesses and prints the best ten.
func opener(ctx context.Context, cfg config.Config, sc *solver.Context, out io.Writer) error {
	opts := solver.OpenerOptions{Workers: cfg.BenchWorkers, Top: 10}
	if isTTY(os.Stderr) {
		bar := progressbar.NewOptions(sc.Len(),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("scoring openers"),
			progressbar.OptionClearOnFinish(),
		)
		var mu sync.Mutex
		opts.Progress = func() {
			mu.Lock()
			_ = bar.Add(1)
			mu.Unlock()
		}
		defer bar.Finish()
	}
	ranked, err := solver.BestOpener(ctx, sc, opts)
	if err != nil {
		return err
	}
	for i, r := range ranked {
		fmt.Fprintf(out, "%2d %s  score %.4f  info %.3f bits\n", i+1, r.Word, r.Score, r.Entropy)
	}
	return nil
}
