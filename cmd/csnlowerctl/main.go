// Command csnlowerctl is a thin shim around package csnlower: it owns the
// file I/O, option-file loading and message formatting spec.md §1 keeps
// out of the core ("The CLI, file I/O, option-file loading ... are
// treated as external collaborators; specify only their interface to the
// core"), and otherwise does nothing the core library doesn't already do.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	optionsFile string
	outDir      string
)

var rootCmd = &cobra.Command{
	Use:   "csnlowerctl",
	Short: "Lower a preprocessed data-definition model into SQL, native DDL, or a protocol schema",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&optionsFile, "options", "", "path to a YAML option file (see spec.md §6)")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", ".", "directory to write rendered output files into")
	rootCmd.AddCommand(compileCmd, diffCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
