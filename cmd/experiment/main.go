// Command experiment seeds an in-memory table and reports how much a B-tree
// index speeds up the same lookup.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"geoMaster/internal/experiment"
	"geoMaster/internal/logging"
)

func main() {
	rows := flag.Int("rows", experiment.DefaultSize, "rows to seed")
	rangeScan := flag.Bool("range", false, "scan lat BETWEEN 40 AND 42 instead of the single-target name lookup")
	format := flag.String("log-format", "console", "json or console")
	flag.Parse()

	logging.Init(logging.Config{Level: "info", Format: *format})

	if err := run(context.Background(), *rows, *rangeScan); err != nil {
		logging.Error().Err(err).Msg("experiment failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, rows int, rangeScan bool) error {
	r, err := experiment.Open()
	if err != nil {
		return fmt.Errorf("open experiment store: %w", err)
	}
	defer r.Close()

	pred := experiment.NameEquals(experiment.TargetName)
	query := "point lookup (name = " + experiment.TargetName + ")"
	if rangeScan {
		pred = experiment.LatBetween(40, 42)
		query = "range scan (lat BETWEEN 40 AND 42)"
	}

	logging.Info().Int("rows", rows).Str("query", query).Msg("starting index experiment")
	rep, err := r.Run(ctx, rows, pred)
	if err != nil {
		return err
	}

	ev := logging.Info().
		Int("rows", rep.Rows).
		Str("query", query).
		Float64("without_index_ms", rep.WithoutMs).
		Float64("with_index_ms", rep.WithMs).
		Int("results_without", rep.ResultsWithout).
		Int("results_with", rep.ResultsWith)
	if rep.Unbounded {
		ev.Bool("gain_unbounded", true).Msg("experiment report")
		return nil
	}
	ev.Float64("gain_ratio", rep.GainRatio).Msg("experiment report")
	return nil
}
