package render

import (
	"bytes"
	"context"
	"html/template"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
)

// StylesheetHref is where generated pages expect the GitHub Markdown
// stylesheet. The default post-processing substitution strips its directory.
const StylesheetHref = "/github-markdown-css/github-css.css"

const mathJaxSrc = "https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-mml-chtml.js"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="{{.Stylesheet}}">
{{- if .Math}}
<script id="MathJax-script" async src="{{.MathJax}}"></script>
{{- end}}
</head>
<body>
<article class="markdown-body" style="max-width: {{.BoxWidth}}; margin: 0 auto;">
{{.Body}}
</article>
{{.Footer}}
</body>
</html>
`))

type pageData struct {
	Title      string
	Stylesheet string
	Math       bool
	MathJax    string
	BoxWidth   string
	Body       template.HTML
	Footer     template.HTML
}

// GoldmarkConverter renders GitHub-flavored Markdown in-process.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a converter with GFM tables, strikethrough,
// autolinks and task lists, and GitHub-style heading IDs. Raw HTML in the
// source is passed through.
func NewGoldmarkConverter() *GoldmarkConverter {
	return &GoldmarkConverter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// Convert implements Converter.
func (g *GoldmarkConverter) Convert(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := g.md.Convert(req.Markdown, &body); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryRender, "markdown conversion failed").
			WithContext("path", req.Path).
			Fatal().
			Build()
	}

	title := ExtractTitle(body.Bytes())
	if title == "" {
		title = strings.TrimSuffix(path.Base(req.Path), path.Ext(req.Path))
	}
	boxWidth := req.Options.BoxWidth
	if boxWidth == "" {
		boxWidth = "25cm"
	}

	var page bytes.Buffer
	err := pageTemplate.Execute(&page, pageData{
		Title:      title,
		Stylesheet: StylesheetHref,
		Math:       req.Options.Math,
		MathJax:    mathJaxSrc,
		BoxWidth:   boxWidth,
		// #nosec G203 -- body is renderer output and footer comes from configuration
		Body:   template.HTML(body.String()),
		Footer: template.HTML(req.Footer),
	})
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryRender, "page template failed").
			WithContext("path", req.Path).
			Fatal().
			Build()
	}
	return page.Bytes(), nil
}
