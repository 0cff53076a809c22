// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package web provides the embedded files of the server: the theme bundle
// copied into generated sites and the static assets of the form UI.
package web

import (
	"embed"
	"io/fs"
)

// siteFS embeds the web/site/ tree: bundled base documents, the default
// pictures and the stylesheets and scripts shipped in every archive.
//
//go:embed all:site
var siteFS embed.FS

// staticFS embeds the web/static/ tree served at /static/ by the form UI.
//
//go:embed all:static
var staticFS embed.FS

// Site returns the theme bundle rooted at web/site/.
func Site() fs.FS {
	sub, err := fs.Sub(siteFS, "site")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}

// Static returns the form UI assets rooted at web/static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
