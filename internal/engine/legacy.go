// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"fmt"
	stdhtml "html"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"salonsite/internal/models"
)

// Fixed content of the bundled Bootstrap beauty theme. Matching happens on
// decoded text nodes, so entity spelling and quote style do not matter.
const (
	legacyTitle      = "Beauty & Salon - Free Bootstrap 4 Template"
	legacyTitleAlt   = "Beauty and Salon - Free Bootstrap 4 Template | Boostraptheme"
	legacyPhone      = "(91) 999 9999 99"
	legacyAddress    = "Dros Began, India 222312"
	legacyAboutTitle = "Good Hair style Good Selfie"
	legacyCopyright  = "Copyright © 2018 Design By"
	legacyAuthorHost = "boostraptheme.com"
)

// legacyMarkers is a cheap pre-check that skips parsing for documents that
// never contained the fixed theme.
var legacyMarkers = []string{
	"Free Bootstrap 4 Template", legacyPhone, legacyAddress, legacyAboutTitle,
	"Taneswar khan", "Rahul Singh", legacyAuthorHost,
}

func hasLegacyMarkers(markup string) bool {
	for _, m := range legacyMarkers {
		if strings.Contains(markup, m) {
			return true
		}
	}
	return false
}

// textRule rewrites a literal or bounded span inside one text node.
type textRule struct {
	re   *regexp.Regexp
	repl func(p *models.SalonProfile) string
}

func literal(s string, repl func(p *models.SalonProfile) string) textRule {
	return textRule{re: regexp.MustCompile(regexp.QuoteMeta(s)), repl: repl}
}

func fixed(s string) func(*models.SalonProfile) string {
	return func(*models.SalonProfile) string { return s }
}

func siteTitle(p *models.SalonProfile) string { return p.Name + " - Salon de Coiffure" }

var legacyTextRules = []textRule{
	literal(legacyTitleAlt, siteTitle),
	literal(legacyTitle, siteTitle),
	literal(legacyPhone, func(p *models.SalonProfile) string { return p.Phone }),
	literal(legacyAddress, func(p *models.SalonProfile) string { return p.Address }),

	literal("Taneswar khan", fixed("Marie Dubois")),
	literal("krish Modi", fixed("Sophie Martin")),
	literal("Trisca Ben", fixed("Léa Bernard")),

	literal("Rahul Singh", fixed("Sophie L.")),
	literal("Bhuvan Shah", fixed("Marie P.")),
	literal("Pranav Mishra", fixed("Julie M.")),
	{
		re: regexp.MustCompile(`If you are going to have a successful beauty salon[\s\S]*?rates\.`),
		repl: func(p *models.SalonProfile) string {
			return fmt.Sprintf("Excellent service chez %s ! L'équipe est très professionnelle et à l'écoute. Je recommande vivement !", p.Name)
		},
	},
	{
		re:   regexp.MustCompile(`style of a salon by the kind of furniture[\s\S]*?minds\.`),
		repl: fixed("Je suis cliente depuis plusieurs années et je ne suis jamais déçue. L'ambiance est chaleureuse et les résultats toujours parfaits."),
	},
	{
		re:   regexp.MustCompile(`salon stock taking a crucial task[\s\S]*?online\.`),
		repl: fixed("Un salon moderne avec des coiffeurs talentueux. Ils savent exactement ce qui nous convient. Merci à toute l'équipe !"),
	},
}

// headingRule rewrites a two-line heading split by <br>.
type headingRule struct {
	before, after string
	repl          func(p *models.SalonProfile) (string, string)
}

var legacyHeadingRules = []headingRule{
	{"Fascinating than any", "fashion salon", func(p *models.SalonProfile) (string, string) {
		return "Bienvenue chez", p.Name
	}},
	{"your hair style", "our passionate team", func(p *models.SalonProfile) (string, string) {
		return p.Name, "Votre style, notre passion"
	}},
}

// rewriteLegacy applies every legacy rewrite to the tree and returns how
// many fragments changed. It is a no-op on documents without the fixed
// theme content.
func (e *Engine) rewriteLegacy(doc *html.Node, p *models.SalonProfile) (int, error) {
	n := 0
	about, err := rewriteAbout(doc, p)
	if err != nil {
		return 0, err
	}
	n += about
	n += rewriteHeadings(doc, p)
	n += rewriteCopyright(doc, p, e.now().Year())
	n += rewriteSocialAnchors(doc, p)
	n += rewriteTexts(doc, p)
	return n, nil
}

func rewriteTexts(doc *html.Node, p *models.SalonProfile) int {
	n := 0
	walk(doc, func(node *html.Node) {
		if node.Type != html.TextNode || isRawText(node.Parent) {
			return
		}
		for _, r := range legacyTextRules {
			if r.re.MatchString(node.Data) {
				repl := r.repl(p)
				node.Data = r.re.ReplaceAllLiteralString(node.Data, repl)
				n++
			}
		}
	})
	return n
}

func rewriteHeadings(doc *html.Node, p *models.SalonProfile) int {
	n := 0
	walk(doc, func(node *html.Node) {
		left := node
		if left.Type != html.TextNode {
			return
		}
		br := left.NextSibling
		if !isElement(br, atom.Br) || br.NextSibling == nil || br.NextSibling.Type != html.TextNode {
			return
		}
		right := br.NextSibling
		for _, h := range legacyHeadingRules {
			if strings.HasSuffix(strings.TrimSpace(left.Data), h.before) &&
				strings.HasPrefix(strings.TrimSpace(right.Data), h.after) {
				l, r := h.repl(p)
				left.Data = replaceLast(left.Data, h.before, l)
				right.Data = strings.Replace(right.Data, h.after, r, 1)
				n++
				return
			}
		}
	})
	return n
}

// rewriteAbout replaces the span from the "about" heading through the
// first following #contact anchor with a generated block.
func rewriteAbout(doc *html.Node, p *models.SalonProfile) (int, error) {
	start := findElement(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.H3 && strings.TrimSpace(textContent(n)) == legacyAboutTitle
	})
	if start == nil || start.Parent == nil {
		return 0, nil
	}

	var end *html.Node
	for s := start.NextSibling; s != nil; s = s.NextSibling {
		if findElement(s, isContactAnchor) != nil {
			end = s
			break
		}
	}
	if end == nil {
		return 0, nil
	}

	parent := start.Parent
	nodes, err := html.ParseFragment(strings.NewReader(aboutBlock(p)), parent)
	if err != nil {
		return 0, fmt.Errorf("parse about block: %w", err)
	}
	for _, n := range nodes {
		parent.InsertBefore(n, start)
	}
	for s := start; ; {
		next := s.NextSibling
		parent.RemoveChild(s)
		if s == end {
			break
		}
		s = next
	}
	return 1, nil
}

func isContactAnchor(n *html.Node) bool {
	if n.DataAtom != atom.A {
		return false
	}
	href, _ := getAttr(n, "href")
	return href == "#contact"
}

func aboutBlock(p *models.SalonProfile) string {
	esc := stdhtml.EscapeString
	var b strings.Builder
	fmt.Fprintf(&b, "\n<h3>À propos de %s</h3>\n<div class=\"bord-bottom\"></div>\n", esc(p.Name))
	fmt.Fprintf(&b, "<p>%s</p>\n", esc(Description(p)))
	fmt.Fprintf(&b, "<p><strong>Horaires :</strong><br>%s</p>\n", hoursDisplay(p))
	if p.Email != "" {
		fmt.Fprintf(&b, "<p><strong>Email :</strong> <a href=\"mailto:%[1]s\">%[1]s</a></p>\n", esc(p.Email))
	}
	if p.Website != "" {
		fmt.Fprintf(&b, "<p><strong>Site web :</strong> <a href=\"%[1]s\" target=\"_blank\">%[1]s</a></p>\n", esc(p.Website))
	}
	b.WriteString(`<a href="#contact" class="img-fluid js-scroll-trigger"><button class="btn btn-general btn-white">CONTACTEZ-NOUS</button></a>` + "\n")
	return b.String()
}

// rewriteCopyright replaces the theme credit with the salon's own line and
// drops the author link.
func rewriteCopyright(doc *html.Node, p *models.SalonProfile, year int) int {
	n := 0
	walk(doc, func(node *html.Node) {
		if node.Type != html.TextNode || !strings.HasSuffix(strings.TrimSpace(node.Data), legacyCopyright) {
			return
		}
		link := node.NextSibling
		if !isElement(link, atom.A) {
			return
		}
		if href, _ := getAttr(link, "href"); !strings.Contains(href, legacyAuthorHost) {
			return
		}
		node.Data = replaceLast(node.Data, legacyCopyright, fmt.Sprintf("Copyright © %d %s", year, p.Name))
		node.Parent.RemoveChild(link)
		n++
	})
	return n
}

// rewriteSocialAnchors points the placeholder "#" links of the facebook and
// instagram icons at the salon's pages.
func rewriteSocialAnchors(doc *html.Node, p *models.SalonProfile) int {
	targets := []struct {
		icon, url string
	}{
		{"fa-facebook", p.Facebook},
		{"fa-instagram", p.Instagram},
	}
	n := 0
	walk(doc, func(node *html.Node) {
		if !isElement(node, atom.A) {
			return
		}
		if href, _ := getAttr(node, "href"); href != "#" {
			return
		}
		for _, t := range targets {
			if t.url == "" || !anchorHasIcon(node, t.icon) {
				continue
			}
			setAttr(node, "href", t.url)
			setAttr(node, "target", "_blank")
			n++
			return
		}
	})
	return n
}

// anchorHasIcon reports whether the icon class sits on the anchor, inside
// it, or on the element right before it.
func anchorHasIcon(a *html.Node, icon string) bool {
	if findElement(a, func(n *html.Node) bool { return hasClass(n, icon) }) != nil {
		return true
	}
	prev := a.PrevSibling
	for prev != nil && prev.Type == html.TextNode && strings.TrimSpace(prev.Data) == "" {
		prev = prev.PrevSibling
	}
	return prev != nil && prev.Type == html.ElementNode && hasClass(prev, icon)
}

func replaceLast(s, old, repl string) string {
	i := strings.LastIndex(s, old)
	if i < 0 {
		return s
	}
	return s[:i] + repl + s[i+len(old):]
}
