package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"resume-builder/internal/export"
	"resume-builder/internal/model"
	"resume-builder/internal/sanitize"
	"resume-builder/internal/theme"
)

// Renders a seed profile with every built-in theme so the print layouts
// can be compared side by side.
func main() {
	in := "profile_override.json"
	if len(os.Args) > 1 {
		in = os.Args[1]
	}
	b, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read profile: %v\n", err)
		os.Exit(2)
	}
	var seed model.Resume
	if err := json.Unmarshal(b, &seed); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
		os.Exit(2)
	}
	doc := seed.Document()
	if err := model.DefaultSchema().Validate(doc).Err(); err != nil {
		fmt.Fprintf(os.Stderr, "validate: %v\n", err)
		os.Exit(2)
	}

	outDir := filepath.Join("resume-data", "generated")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create out dir: %v\n", err)
		os.Exit(2)
	}
	gate := sanitize.New()
	for _, t := range theme.Default().List() {
		page := export.PrintShell(t, gate.Sanitize(t.Render(doc)), export.PrintOptions{Title: seed.Meta.Name + " - " + t.Name})
		outFile := filepath.Join(outDir, "gallery-"+t.ID+".html")
		if err := os.WriteFile(outFile, []byte(page), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", outFile, err)
			os.Exit(2)
		}
		fmt.Printf("wrote %s\n", outFile)
	}
}
