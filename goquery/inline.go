package goquery

import (
	"encoding/base64"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lpedit"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Inliner implements lpedit.Inliner.
var _ lpedit.Inliner = (*Inliner)(nil)

// Inliner embeds local images, stylesheets and scripts so a preview renders
// without fetching anything.
type Inliner struct{}

// NewInliner creates a new Inliner.
func NewInliner() *Inliner {
	return &Inliner{}
}

// Inline rewrites local references in src using bytes resolved through the
// project: caller overrides first, then caller-added assets, then the
// original archive. References that resolve to nothing are left as they are.
func (i *Inliner) Inline(project *lpedit.ImportProject, src string) (string, error) {
	doc, err := ParseDocument(src)
	if err != nil {
		return "", err
	}
	baseDir := project.BaseDir()

	resolve := func(ref string) (string, []byte, bool) {
		if lpedit.ClassifyRef(ref) != lpedit.RefLocal {
			return "", nil, false
		}
		p, ok := lpedit.ResolveAssetPath(baseDir, ref)
		if !ok {
			return "", nil, false
		}
		data, ok := project.ResolveAsset(p)
		return p, data, ok
	}

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		p, data, ok := resolve(s.AttrOr("src", ""))
		if !ok {
			return
		}
		s.SetAttr("src", "data:"+lpedit.MIMEType(p)+";base64,"+base64.StdEncoding.EncodeToString(data))
	})

	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		if !isStylesheet(s.AttrOr("rel", "")) {
			return
		}
		_, data, ok := resolve(s.AttrOr("href", ""))
		if !ok {
			return
		}
		style := &html.Node{Type: html.ElementNode, Data: "style", DataAtom: atom.Style}
		if media, ok := s.Attr("media"); ok {
			style.Attr = append(style.Attr, html.Attribute{Key: "media", Val: media})
		}
		style.AppendChild(&html.Node{Type: html.TextNode, Data: string(data)})
		s.ReplaceWithNodes(style)
	})

	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		_, data, ok := resolve(s.AttrOr("src", ""))
		if !ok {
			return
		}
		s.RemoveAttr("src")
		setRawText(s.Get(0), string(data))
	})

	return Render(doc)
}

// setRawText replaces the children of a raw text element (script, style)
// with text that is serialized without escaping.
func setRawText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func isStylesheet(rel string) bool {
	for _, r := range strings.Fields(rel) {
		if strings.EqualFold(r, "stylesheet") {
			return true
		}
	}
	return false
}
