package export

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"

	"resume-builder/internal/render"
	"resume-builder/internal/theme"
)

var minifier = minify.New()

func init() {
	minifier.AddFunc("text/css", css.Minify)
	minifier.AddFunc("text/html", html.Minify)
}

// Paper sizes understood by the print CSS.
const (
	PaperA4     = "A4"
	PaperLetter = "Letter"
)

// PrintOptions shape the print shell.
type PrintOptions struct {
	Title string
	// Paper is A4 or Letter; anything else is A4.
	Paper string
	// AutoPrint adds a script that opens the browser print dialog. Only the
	// browser print view sets it; the PDF path never does.
	AutoPrint bool
	Minify    bool
}

// PrintShell wraps already sanitized body HTML into a standalone document
// with the theme's stylesheet and print CSS.
func PrintShell(t theme.Theme, body string, opts PrintOptions) string {
	title := opts.Title
	if title == "" {
		title = "Resume"
	}
	paper := PaperA4
	if strings.EqualFold(opts.Paper, PaperLetter) {
		paper = PaperLetter
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + render.Escape(title) + "</title>\n<style>\n")
	b.WriteString(theme.Stylesheet(t))
	fmt.Fprintf(&b, "@page{size:%s;margin:12mm}\n", paper)
	b.WriteString("@media print{body{margin:0}.resume{max-width:none}a{text-decoration:none}}\n")
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n")
	if opts.AutoPrint {
		b.WriteString("<script>window.addEventListener(\"load\",function(){window.print()})</script>\n")
	}
	b.WriteString("</body>\n</html>\n")

	out := b.String()
	if !opts.Minify {
		return out
	}
	min, err := minifier.String("text/html", out)
	if err != nil {
		slog.Warn("Error minify print shell", "theme", t.ID, "err", err)
		return out
	}
	return min
}
