package htmlparse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func firstAttr(root *goquery.Selection, selector, attr string) string {
	v, _ := root.Find(selector).First().Attr(attr)
	return v
}

func innerHTML(s *goquery.Selection) string {
	h, err := s.First().Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(h)
}

// ownText joins the direct text children of s, skipping text inside nested
// elements such as footnote markers.
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			b.WriteString(c.Text())
		}
	})
	return normalizeSpace(b.String())
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
