// Package goquery implements the lpedit document pipeline on top of goquery
// and golang.org/x/net/html: parsing, node addressing, asset scanning,
// section and block extraction, patching and preview inlining.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lpedit"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// ParseDocument parses an HTML document with a conformant HTML5 tree builder.
// Malformed markup is repaired the way browsers repair it.
func ParseDocument(src string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, lpedit.Errorf(lpedit.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// DecodeHTML converts raw document bytes to UTF-8 text. The encoding is
// taken from a byte order mark or a <meta> charset declaration, falling back
// to UTF-8 detection. Input that is valid UTF-8 is kept as is unless a byte
// order mark says otherwise. It returns the text and the canonical encoding
// name.
func DecodeHTML(data []byte) (string, string) {
	enc, name, certain := charset.DetermineEncoding(data, "text/html")
	if name == "utf-8" || enc == nil || (!certain && utf8.Valid(data)) {
		return strings.TrimPrefix(string(data), "\uFEFF"), "utf-8"
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data), "utf-8"
	}
	return strings.TrimPrefix(string(decoded), "\uFEFF"), name
}

// Render serializes the whole document, doctype included.
func Render(doc *goquery.Document) (string, error) {
	return doc.Html()
}

// bodyNode returns the <body> element. The HTML5 tree builder always
// synthesizes one.
func bodyNode(doc *goquery.Document) *html.Node {
	return doc.Find("body").First().Get(0)
}

// findWithSelf matches selector against the selection and its descendants,
// in document order.
func findWithSelf(sel *goquery.Selection, selector string) *goquery.Selection {
	return sel.Filter(selector).AddSelection(sel.Find(selector))
}

// normalizeCharsetMeta rewrites charset declarations to UTF-8, the encoding
// every serialized document is produced in. UTF-8 declarations are left alone.
func normalizeCharsetMeta(doc *goquery.Document) {
	doc.Find("meta[charset]").Each(func(_ int, s *goquery.Selection) {
		if !isUTF8Label(s.AttrOr("charset", "")) {
			s.SetAttr("charset", "utf-8")
		}
	})
	doc.Find("meta[http-equiv]").Each(func(_ int, s *goquery.Selection) {
		if !strings.EqualFold(strings.TrimSpace(s.AttrOr("http-equiv", "")), "content-type") {
			return
		}
		content := s.AttrOr("content", "")
		idx := strings.Index(strings.ToLower(content), "charset=")
		if idx < 0 || isUTF8Label(content[idx+len("charset="):]) {
			return
		}
		s.SetAttr("content", content[:idx]+"charset=utf-8")
	})
}

func isUTF8Label(label string) bool {
	label = strings.ToLower(strings.Trim(strings.TrimSpace(label), `"'`))
	return label == "utf-8" || label == "utf8"
}
