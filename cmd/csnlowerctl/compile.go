package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	csnlower "github.com/csnlower/csnlower"
	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/optsx"
)

var (
	wantProtocol bool
	wantSQL      bool
	wantDDL      bool
)

var compileCmd = &cobra.Command{
	Use:   "compile <input.json>",
	Short: "Preprocess a CSN-style model and render the requested targets",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().BoolVar(&wantProtocol, "protocol", false, "render the OData protocol schema")
	compileCmd.Flags().BoolVar(&wantSQL, "sql", false, "render SQL CREATE statements")
	compileCmd.Flags().BoolVar(&wantDDL, "ddl", false, "render native object DDL")
}

func runCompile(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("csnlowerctl: opening input: %w", err)
	}
	defer in.Close()

	store, err := model.DecodeStore(in)
	if err != nil {
		return fmt.Errorf("csnlowerctl: decoding input: %w", err)
	}

	fileOpts, err := loadOptions(optionsFile)
	if err != nil {
		return err
	}
	opts, err := optsx.New(fileOpts...)
	if err != nil {
		return fmt.Errorf("csnlowerctl: invalid options: %w", err)
	}

	lowered, sink := csnlower.Compile(store, opts)
	reportDiagnostics(sink)
	if sink.HasErrors() {
		return fmt.Errorf("csnlowerctl: compile finished with errors, not rendering")
	}

	outputs := map[string]string{}
	if wantProtocol {
		m, err := csnlower.RenderProtocol(lowered, opts, sink)
		if err != nil {
			return err
		}
		mergeInto(outputs, m)
	}
	if wantSQL {
		m, err := csnlower.RenderSQL(lowered, opts, sink)
		if err != nil {
			return err
		}
		mergeInto(outputs, m)
	}
	if wantDDL {
		m, err := csnlower.RenderDDL(lowered, opts, sink)
		if err != nil {
			return err
		}
		mergeInto(outputs, m)
	}
	return writeOutputs(outputs)
}

func mergeInto(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

func writeOutputs(outputs map[string]string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("csnlowerctl: creating output directory: %w", err)
	}
	for name, text := range outputs {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("csnlowerctl: writing %s: %w", path, err)
		}
	}
	return nil
}

func reportDiagnostics(sink *errs.Sink) {
	for _, d := range sink.Sorted() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
}
