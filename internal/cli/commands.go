package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"resume-builder/internal/editor"
	"resume-builder/internal/export"
	"resume-builder/internal/sanitize"
	"resume-builder/internal/theme"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a document file against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := loadDocument(cmd, args[0])
			var ie *export.ImportError
			if errors.As(err, &ie) {
				for _, is := range ie.Issues {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", is.Path, is.Reason)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newRenderCmd() *cobra.Command {
	var (
		themeID string
		raw     bool
		out     string
	)
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a document to themed, sanitized HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			gate := sanitize.New()
			if raw {
				gate = sanitize.NewPassthrough()
			}
			t := theme.Default().Resolve(themeID)
			return writeOutput(cmd, out, []byte(gate.Sanitize(t.Render(doc))+"\n"))
		},
	}
	cmd.Flags().StringVar(&themeID, "theme", "", "Theme id (default: first theme)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Skip sanitization (trusted input only)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default: stdout)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		format  string
		themeID string
		paper   string
		minify  bool
		out     string
	)
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a document as canonical JSON, a print page or plain text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			var data []byte
			switch strings.ToLower(format) {
			case "json":
				data, err = export.ExportJSON(doc)
			case "print":
				t := theme.Default().Resolve(themeID)
				body := sanitize.New().Sanitize(t.Render(doc))
				data = []byte(export.PrintShell(t, body, export.PrintOptions{Paper: paper, Minify: minify}))
			case "text":
				var text string
				text, err = export.ResumeText(doc)
				data = []byte(text + "\n")
			default:
				return fmt.Errorf("unknown format %q (json, print, text)", format)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, data)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json, print or text")
	cmd.Flags().StringVar(&themeID, "theme", "", "Theme id for print output")
	cmd.Flags().StringVar(&paper, "paper", export.PaperA4, "A4 or Letter")
	cmd.Flags().BoolVar(&minify, "minify", false, "Minify print output")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default: stdout)")
	return cmd
}

func newPaletteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "palette [query]",
		Short: "List the slash commands matching a query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := ""
			if len(args) == 1 {
				q = args[0]
			}
			for _, c := range editor.FilterCommands(editor.DefaultCommands(), q) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", c.ID, c.Title)
			}
			return nil
		},
	}
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the built-in themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range theme.Default().List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", t.ID, t.Description)
			}
			return nil
		},
	}
}
