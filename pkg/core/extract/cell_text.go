package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Cell is one physical table cell with its column span.
type Cell struct {
	Text    string
	ColSpan int
}

// CellText flattens one table cell to normalized plain text.
//
// Embedded lists are rendered first: each <li> becomes "- item" joined by
// newlines, replacing the <ul>/<ol> element in document order. The whole cell
// is then flattened with inline fragments joined by single spaces, and any
// whitespace run is collapsed to one space. The collapse step also flattens
// the newlines the list rendering just introduced; that matches the observed
// behavior of the production checklist importer and is kept as-is.
//
// A nil or empty selection yields "".
func CellText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}

	sel.Find("ul, ol").Each(func(_ int, list *goquery.Selection) {
		var b strings.Builder
		list.Find("li").Each(func(_ int, li *goquery.Selection) {
			b.WriteString("- ")
			b.WriteString(flattenText(li))
			b.WriteString("\n")
		})
		list.ReplaceWithHtml(html.EscapeString(b.String()))
	})

	return collapseWhitespace(flattenText(sel))
}

// flattenText walks the selection's nodes and joins text fragments with
// single spaces, the way a strip-and-separate text extractor would.
func flattenText(sel *goquery.Selection) string {
	var parts []string
	for _, node := range sel.Nodes {
		collectText(node, &parts)
	}
	return strings.Join(parts, " ")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := trimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// rowCells extracts the physical cells of a <tr> in document order.
// A missing or malformed colspan attribute counts as 1.
func rowCells(tr *goquery.Selection) []Cell {
	var cells []Cell
	tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		colspan, err := strconv.Atoi(cell.AttrOr("colspan", "1"))
		if err != nil || colspan < 1 {
			colspan = 1
		}
		cells = append(cells, Cell{
			Text:    CellText(cell),
			ColSpan: colspan,
		})
	})
	return cells
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return trimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}

// containsToken reports whether text contains the token. Both sides are
// expected to be upper-cased already.
func containsToken(text, token string) bool {
	return strings.Contains(text, token)
}
