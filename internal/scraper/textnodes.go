package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// findText returns the first text node of the document, in document order,
// whose trimmed text satisfies pred. Script and style contents count as text
// nodes too; some pages surface data only inside them.
func findText(doc *goquery.Document, pred func(string) bool) (string, bool) {
	return findTextIn(doc.Selection, pred)
}

// findTextIn is findText scoped to a selection's subtree
func findTextIn(sel *goquery.Selection, pred func(string) bool) (string, bool) {
	var found string
	var ok bool
	for _, node := range sel.Nodes {
		stopped := visitTextNodes(node, func(text string) bool {
			trimmed := strings.TrimSpace(text)
			if trimmed == "" || !pred(trimmed) {
				return false
			}
			found = trimmed
			ok = true
			return true
		})
		if stopped {
			break
		}
	}
	return found, ok
}

// visitTextNodes walks the subtree depth-first and calls fn for every text
// node. fn returning true stops the walk.
func visitTextNodes(n *html.Node, fn func(text string) bool) bool {
	if n.Type == html.TextNode {
		return fn(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if visitTextNodes(c, fn) {
			return true
		}
	}
	return false
}
