package export

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"resume-builder/internal/model"
	"resume-builder/internal/render"
)

// PlainText converts rendered HTML into Markdown-flavoured text, the form
// ATS analysis expects as resumeText.
func PlainText(html string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

// ResumeText renders doc without a theme and converts it to text.
func ResumeText(doc *model.Document) (string, error) {
	return PlainText(render.Render(doc))
}
