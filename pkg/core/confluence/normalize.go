package confluence

import (
	"html"
	"regexp"
	"strings"
)

// Storage-format content mixes XHTML with ac: macro elements, which a strict
// HTML parser mangles. The normalizer works on the raw markup instead.
var (
	cdataRe = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)

	codeMacroRe    = regexp.MustCompile(`(?s)<ac:structured-macro ac:name="code"[^>]*>.*?<ac:plain-text-body><!\[CDATA\[(.*?)\]\]></ac:plain-text-body>.*?</ac:structured-macro>`)
	infoMacroRe    = regexp.MustCompile(`(?s)<ac:structured-macro ac:name="info"[^>]*>(.*?)</ac:structured-macro>`)
	warningMacroRe = regexp.MustCompile(`(?s)<ac:structured-macro ac:name="warning"[^>]*>(.*?)</ac:structured-macro>`)
	noteMacroRe    = regexp.MustCompile(`(?s)<ac:structured-macro ac:name="note"[^>]*>(.*?)</ac:structured-macro>`)
	tocMacroRe     = regexp.MustCompile(`(?s)<ac:structured-macro ac:name="toc"[^>]*>.*?</ac:structured-macro>`)
	anyMacroRe     = regexp.MustCompile(`(?s)<ac:structured-macro[^>]*>(.*?)</ac:structured-macro>`)

	headerRe    = regexp.MustCompile(`<h[1-6][^>]*>(.*?)</h[1-6]>`)
	paragraphRe = regexp.MustCompile(`(?s)<p[^>]*>(.*?)</p>`)
	brRe        = regexp.MustCompile(`<br[^>]*/?>`)
	listOpenRe  = regexp.MustCompile(`<[uo]l[^>]*>`)
	listCloseRe = regexp.MustCompile(`</[uo]l>`)
	listItemRe  = regexp.MustCompile(`(?s)<li[^>]*>(.*?)</li>`)
	tableOpenRe = regexp.MustCompile(`<table[^>]*>`)
	rowOpenRe   = regexp.MustCompile(`<tr[^>]*>`)
	cellRe      = regexp.MustCompile(`(?s)<t[hd][^>]*>(.*?)</t[hd]>`)
	strongRe    = regexp.MustCompile(`(?s)<(?:strong|b)[^>]*>(.*?)</(?:strong|b)>`)
	emRe        = regexp.MustCompile(`(?s)<(?:em|i)[^>]*>(.*?)</(?:em|i)>`)
	linkRe      = regexp.MustCompile(`(?s)<a[^>]*href="([^"]*)"[^>]*>(.*?)</a>`)
	anyTagRe    = regexp.MustCompile(`<[^>]+>`)

	multiBlankRe = regexp.MustCompile(`\n\s*\n\s*\n+`)
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
)

// NormalizeContent converts Confluence storage-format markup to plain text
// with a light markdown flavor for structure.
func NormalizeContent(content string) string {
	if content == "" {
		return ""
	}

	content = convertMacros(content)
	content = cdataRe.ReplaceAllString(content, "$1")
	content = htmlToText(content)

	content = multiBlankRe.ReplaceAllString(content, "\n\n")
	content = spaceRunRe.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}

func convertMacros(content string) string {
	content = codeMacroRe.ReplaceAllString(content, "```\n$1\n```")
	content = infoMacroRe.ReplaceAllString(content, "[info] $1")
	content = warningMacroRe.ReplaceAllString(content, "[warning] $1")
	content = noteMacroRe.ReplaceAllString(content, "[note] $1")
	content = tocMacroRe.ReplaceAllString(content, "[Table of Contents]")
	content = anyMacroRe.ReplaceAllString(content, "$1")
	return content
}

func htmlToText(content string) string {
	content = headerRe.ReplaceAllString(content, "\n\n# $1\n\n")
	content = paragraphRe.ReplaceAllString(content, "$1\n\n")
	content = brRe.ReplaceAllString(content, "\n")

	content = listOpenRe.ReplaceAllString(content, "\n")
	content = listCloseRe.ReplaceAllString(content, "\n")
	content = listItemRe.ReplaceAllString(content, "- $1\n")

	content = tableOpenRe.ReplaceAllString(content, "\n\n")
	content = strings.ReplaceAll(content, "</table>", "\n\n")
	content = rowOpenRe.ReplaceAllString(content, "\n")
	content = strings.ReplaceAll(content, "</tr>", "")
	content = cellRe.ReplaceAllString(content, "$1 | ")

	content = strongRe.ReplaceAllString(content, "**$1**")
	content = emRe.ReplaceAllString(content, "*$1*")
	content = linkRe.ReplaceAllString(content, "$2 ($1)")

	content = anyTagRe.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}
