// Package cli implements resumectl, the offline companion to the server:
// it validates, renders and exports document JSON files.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"resume-builder/internal/export"
	"resume-builder/internal/model"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "resumectl",
		Short: "resumectl validates, renders and exports resume documents",
		Long: `resumectl works on document JSON files as written by the export endpoint.

Usage:
  resumectl validate resume.json
  resumectl render resume.json --theme modern
  resumectl export resume.json --format print --out resume.html
  resumectl palette edu`,
		SilenceUsage: true,
	}
	root.AddCommand(newValidateCmd(), newRenderCmd(), newExportCmd(), newPaletteCmd(), newThemesCmd())
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadDocument reads and imports a document file; "-" reads stdin.
func loadDocument(cmd *cobra.Command, path string) (*model.Document, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return export.ImportJSON(model.DefaultSchema(), raw)
}

func writeOutput(cmd *cobra.Command, out string, data []byte) error {
	if out == "" || out == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(out, data, 0o644)
}
