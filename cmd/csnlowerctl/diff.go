package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	csnlower "github.com/csnlower/csnlower"
	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/optsx"
)

var diffCmd = &cobra.Command{
	Use:   "diff <before.json> <after.json>",
	Short: "Compare two preprocessed models and emit dialect-specific ALTER statements",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	fileOpts, err := loadOptions(optionsFile)
	if err != nil {
		return err
	}
	opts, err := optsx.New(fileOpts...)
	if err != nil {
		return fmt.Errorf("csnlowerctl: invalid options: %w", err)
	}

	before, beforeSink, err := compileFile(args[0], opts)
	if err != nil {
		return err
	}
	after, afterSink, err := compileFile(args[1], opts)
	if err != nil {
		return err
	}
	reportDiagnostics(beforeSink)
	reportDiagnostics(afterSink)
	if beforeSink.HasErrors() || afterSink.HasErrors() {
		return fmt.Errorf("csnlowerctl: one or both models finished with errors, not diffing")
	}

	plan := csnlower.Diff(before, after)
	if plan.IsEmpty() {
		fmt.Fprintln(os.Stderr, "csnlowerctl: no persisted-entity changes")
		return nil
	}

	sink := beforeSink
	sql, err := csnlower.RenderMigration(plan, opts, sink)
	if err != nil {
		return err
	}
	return writeOutputs(map[string]string{"migration.sql": sql})
}

func compileFile(path string, opts *optsx.Options) (*model.Store, *errs.Sink, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csnlowerctl: opening %s: %w", path, err)
	}
	defer f.Close()

	store, err := model.DecodeStore(f)
	if err != nil {
		return nil, nil, fmt.Errorf("csnlowerctl: decoding %s: %w", path, err)
	}
	lowered, sink := csnlower.Compile(store, opts)
	return lowered, sink, nil
}
