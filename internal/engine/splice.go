// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"salonsite/internal/models"
)

// imageRefs maps each default filename literal to the data URI of the
// uploaded image replacing it. Portfolio images map positionally onto
// portfolio-1.jpg, portfolio-2.jpg and so on, up to maxPortfolio.
func imageRefs(images *models.ImageSet, maxPortfolio int) map[string]string {
	refs := map[string]string{}
	if images == nil {
		return refs
	}
	for slot, a := range images.Single {
		if name := slot.DefaultFile(); name != "" {
			refs[name] = a.DataURI()
		}
	}
	for i, a := range images.Portfolio {
		if i >= maxPortfolio {
			break
		}
		refs[models.PortfolioFile(i)] = a.DataURI()
	}
	return refs
}

// urlAttrs are the attributes holding a single image reference.
var urlAttrs = map[string]bool{
	"src":             true,
	"data-src":        true,
	"data-background": true,
	"poster":          true,
}

var cssURLRe = regexp.MustCompile(`url\(\s*(['"]?)([^'")]+?)(['"]?)\s*\)`)

// spliceImages rewrites every reference to a populated default filename:
// URL attributes, srcset candidates, anchors linking to the image, style
// attributes and style elements. counts is incremented per filename.
func spliceImages(doc *html.Node, refs map[string]string, counts map[string]int) {
	if len(refs) == 0 {
		return
	}
	walk(doc, func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			for i, a := range n.Attr {
				if a.Namespace != "" {
					continue
				}
				switch {
				case urlAttrs[a.Key]:
					if uri, ok := lookupRef(refs, a.Val); ok {
						n.Attr[i].Val = uri
						counts[refBase(a.Val)]++
					}
				case a.Key == "href" && n.DataAtom == atom.A:
					if uri, ok := lookupRef(refs, a.Val); ok {
						n.Attr[i].Val = uri
						counts[refBase(a.Val)]++
					}
				case a.Key == "srcset":
					n.Attr[i].Val = spliceSrcset(a.Val, refs, counts)
				case a.Key == "style":
					n.Attr[i].Val = spliceCSS(a.Val, refs, counts)
				}
			}
		case html.TextNode:
			if isElement(n.Parent, atom.Style) {
				n.Data = spliceCSS(n.Data, refs, counts)
			}
		}
	})
}

// spliceCSS replaces url(x), url('x') and url("x") references, keeping the
// original quoting.
func spliceCSS(css string, refs map[string]string, counts map[string]int) string {
	return cssURLRe.ReplaceAllStringFunc(css, func(m string) string {
		sub := cssURLRe.FindStringSubmatch(m)
		open, ref, closing := sub[1], sub[2], sub[3]
		uri, ok := lookupRef(refs, ref)
		if !ok {
			return m
		}
		counts[refBase(ref)]++
		return "url(" + open + uri + closing + ")"
	})
}

// spliceSrcset rewrites the URL of each candidate, keeping descriptors.
func spliceSrcset(srcset string, refs map[string]string, counts map[string]int) string {
	parts := strings.Split(srcset, ",")
	changed := false
	for i, part := range parts {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		uri, ok := lookupRef(refs, fields[0])
		if !ok {
			continue
		}
		counts[refBase(fields[0])]++
		fields[0] = uri
		parts[i] = strings.Join(fields, " ")
		changed = true
	}
	if !changed {
		return srcset
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ", ")
}

func lookupRef(refs map[string]string, ref string) (string, bool) {
	if strings.HasPrefix(ref, "data:") {
		return "", false
	}
	uri, ok := refs[refBase(ref)]
	return uri, ok
}

// refBase returns the filename of a reference without query or fragment.
func refBase(ref string) string {
	ref = strings.TrimSpace(ref)
	if u, err := url.Parse(ref); err == nil {
		ref = u.Path
	} else if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	return path.Base(ref)
}
