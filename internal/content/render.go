package content

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Defaults shown until the hero blocks exist.
const (
	DefaultHeadline = "Elevate Your Space with Timeless Design"
	DefaultSubtext  = "Discover curated home decor that transforms ordinary rooms into extraordinary sanctuaries."
)

// Hero is the landing page banner copy. SubtextHTML is the subtext rendered
// as Markdown and sanitised, so editors can add emphasis or links.
type Hero struct {
	Headline    string
	Subtext     string
	SubtextHTML template.HTML
}

// Renderer turns editor-supplied Markdown into safe HTML.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{md: goldmark.New(), policy: bluemonday.UGCPolicy()}
}

// Markdown renders src. On a render failure the escaped source is returned.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

func (r *Renderer) Hero(headline, subtext string) Hero {
	return Hero{Headline: headline, Subtext: subtext, SubtextHTML: r.Markdown(subtext)}
}
