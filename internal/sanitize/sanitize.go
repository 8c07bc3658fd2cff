// Package sanitize is the allow-list gate every HTML string passes before
// it leaves the service: rendered previews, print views and AI fragments.
package sanitize

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	colorRegexp = regexp.MustCompile(`^(#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|rgb\((\d+),\s*(\d+),\s*(\d+)\)|inherit|transparent|yellow|green|blue|red|orange)$`)
	sizeRegexp  = regexp.MustCompile(`^(\d+(\.\d+)?(px|em|rem|pt|mm|cm|%)?|auto|inherit)$`)
	classRegexp = regexp.MustCompile(`^[a-z][a-z0-9-]*( [a-z][a-z0-9-]*)*$`)
)

// Policy returns the policy used by New: bluemonday's UGC set plus the
// section/header/aside layout tags the themes emit and the target, rel,
// style and class attributes.
func Policy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowElements("section", "header", "aside", "main", "article", "mark")

	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(regexp.MustCompile(`^[a-z ]+$`)).OnElements("a")
	p.AllowAttrs("class").Matching(classRegexp).Globally()
	p.AllowAttrs("data-color").Matching(colorRegexp).OnElements("mark")

	p.AllowAttrs("style").Globally()
	p.AllowStyles("color", "background-color").Matching(colorRegexp).Globally()
	p.AllowStyles("font-size", "margin", "padding", "width").Matching(sizeRegexp).Globally()
	p.AllowStyles("text-align").Matching(bluemonday.CellAlign).Globally()
	p.AllowStyles("font-weight").Matching(regexp.MustCompile(`^(normal|bold|[1-9]00)$`)).Globally()

	return p
}

// Gate cleans HTML with an allow-list policy. A passthrough gate returns
// its input unchanged; it exists for pipelines whose output is cleaned
// again before it reaches a browser.
type Gate struct {
	policy      *bluemonday.Policy
	passthrough bool
}

// New returns a gate backed by Policy.
func New() *Gate {
	return &Gate{policy: Policy()}
}

// NewPassthrough returns a gate that does nothing.
func NewPassthrough() *Gate {
	return &Gate{passthrough: true}
}

var defaultPolicy = sync.OnceValue(Policy)

// Sanitize returns the cleaned html. It never fails. A nil or zero Gate
// cleans with Policy; only NewPassthrough skips cleaning.
func (g *Gate) Sanitize(html string) string {
	if html == "" {
		return html
	}
	if g == nil || g.policy == nil {
		if g != nil && g.passthrough {
			return html
		}
		return defaultPolicy().Sanitize(html)
	}
	return g.policy.Sanitize(html)
}

// Passthrough reports whether the gate is a no-op.
func (g *Gate) Passthrough() bool { return g != nil && g.passthrough }
