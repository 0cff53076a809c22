// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts Markdown source text into HTML using goldmark.
// It renders the instructions shipped inside generated archives, so the
// output is a standalone page rather than a fragment.
package markdown

import (
	"bytes"
	"fmt"
	"html"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// md is the configured goldmark instance, reused across calls. Raw HTML
// is not passed through: the source may quote user-supplied names.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// ToHTML converts Markdown source into an HTML fragment.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown: convert: %w", err)
	}
	return buf.String(), nil
}

// Page renders source as a complete UTF-8 HTML document with the given title.
func Page(title, source string) (string, error) {
	body, err := ToHTML(source)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(pageLayout, html.EscapeString(title), body), nil
}

const pageLayout = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>body{font-family:system-ui,sans-serif;max-width:46rem;margin:2rem auto;padding:0 1rem;line-height:1.6;color:#2c2c2c}code{background:#f4f1ec;padding:.1em .3em;border-radius:3px}h1,h2{color:#8a6d3b}</style>
</head>
<body>
%s</body>
</html>
`
