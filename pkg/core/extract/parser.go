package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"qamind/pkg/core/logging"
)

// HTMLParser is the extraction orchestrator for one Confluence page.
// It locates testcase-shaped tables and concatenates per-table extraction
// results. The parser is stateless across invocations and safe to share
// between goroutines processing independent pages.
type HTMLParser struct {
	keywords *Keywords
	tables   *TableExtractor
}

// NewHTMLParser creates a parser around a keyword set (nil for defaults).
func NewHTMLParser(kw *Keywords) *HTMLParser {
	if kw == nil {
		kw = DefaultKeywords()
	}
	return &HTMLParser{
		keywords: kw,
		tables:   NewTableExtractor(kw),
	}
}

// ParseTestcases extracts testcases from a page's storage-format HTML.
//
// Tables whose header row carries none of the filter keywords are skipped
// entirely. Per-table results are concatenated in document order with their
// table-local order indices intact; renumbering across tables is the merge
// engine's job.
//
// A failure anywhere in the document degrades to an empty Result with a
// diagnostic: a crash mid-parse cannot be trusted to have left consistent
// parse state, so partial results are never returned.
func (p *HTMLParser) ParseTestcases(htmlContent string) (result Result) {
	log := logging.New("html-parser")

	defer func() {
		if r := recover(); r != nil {
			result = Result{Diagnostic: fmt.Sprintf("recovered from parse panic: %v", r)}
			log.WithField("panic", fmt.Sprint(r)).Warn("document parse aborted")
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		log.WithError(err).Warn("failed to parse page HTML")
		return Result{Diagnostic: fmt.Sprintf("parse HTML: %v", err)}
	}

	var testcases []RawTestCase
	tableCount := 0
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if !p.isTestcaseTable(table) {
			return
		}
		tableCount++
		testcases = append(testcases, p.tables.ExtractTable(table)...)
	})

	log.WithFields(map[string]interface{}{
		"tables":    tableCount,
		"testcases": len(testcases),
	}).Debug("page extraction complete")

	return Result{Testcases: testcases}
}

// isTestcaseTable checks the header row for at least one filter keyword.
// Tables of prerequisites, environment notes etc. have none of them.
func (p *HTMLParser) isTestcaseTable(table *goquery.Selection) bool {
	rows := table.Find("tr")
	if rows.Length() == 0 {
		return false
	}

	var headers []string
	rows.First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, strings.ToUpper(flattenText(cell)))
	})

	joined := strings.Join(headers, " ")
	return anyTokenIn(joined, p.keywords.TableFilter)
}
