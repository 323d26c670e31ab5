package extract

import "strings"

// RowKind is the classification of one data row.
type RowKind int

const (
	// RowTestcase is a regular testcase row. Table extraction may still
	// reject it if the step payload is too short.
	RowTestcase RowKind = iota
	// RowSectionHeader switches the running section (GENERAL/CUSTOM).
	RowSectionHeader
	// RowDivider carries a functionality label and no testcase payload.
	RowDivider
)

func (k RowKind) String() string {
	switch k {
	case RowSectionHeader:
		return "section_header"
	case RowDivider:
		return "divider"
	default:
		return "testcase"
	}
}

// sectionSpanWidth is the minimum colspan for a row-wide marker cell.
const sectionSpanWidth = 3

// ClassifyRow decides whether a row is a section marker, a divider, or a
// testcase row. The section test runs first: a row is never both.
func ClassifyRow(cells []Cell, kw *Keywords) RowKind {
	if isSectionHeaderRow(cells, kw) {
		return RowSectionHeader
	}
	if isDividerRow(cells, kw) {
		return RowDivider
	}
	return RowTestcase
}

// isSectionHeaderRow: any cell spanning the table width whose text names a
// section (GENERAL, CUSTOM, or a generic section label).
func isSectionHeaderRow(cells []Cell, kw *Keywords) bool {
	for _, cell := range cells {
		if cell.ColSpan >= sectionSpanWidth && kw.isSectionName(strings.ToUpper(cell.Text)) {
			return true
		}
	}
	return false
}

// isDividerRow: a row-wide spanned cell with non-section text, or a row where
// only the first cell is populated and that text is not a section name.
func isDividerRow(cells []Cell, kw *Keywords) bool {
	for _, cell := range cells {
		if cell.ColSpan >= sectionSpanWidth && cell.Text != "" {
			if !kw.isSectionName(strings.ToUpper(cell.Text)) {
				return true
			}
		}
	}

	if len(cells) >= 2 && cells[0].Text != "" {
		othersEmpty := true
		for _, cell := range cells[1:] {
			if cell.Text != "" {
				othersEmpty = false
				break
			}
		}
		if othersEmpty && !kw.isSectionName(strings.ToUpper(cells[0].Text)) {
			return true
		}
	}
	return false
}

// dividerLabel returns the functionality label carried by a divider row:
// the first spanned cell with text, else the first cell. The label is passed
// through verbatim, with no keyword remapping.
func dividerLabel(cells []Cell) string {
	for _, cell := range cells {
		if cell.ColSpan > 1 && cell.Text != "" {
			return cell.Text
		}
	}
	if len(cells) > 0 {
		return cells[0].Text
	}
	return ""
}

// sectionInfo extracts the new section from a section-marker row, plus a
// best-effort functionality guess. A cell reading exactly GENERAL or CUSTOM
// sets the section; any other section-named cell may carry a trailing label
// ("РАЗДЕЛ Payments") which becomes the functionality guess.
func sectionInfo(cells []Cell, kw *Keywords) (TestGroup, *string) {
	section := GroupGeneral
	var functionality *string

	for _, cell := range cells {
		upper := strings.ToUpper(cell.Text)
		switch upper {
		case string(GroupGeneral):
			section = GroupGeneral
		case string(GroupCustom):
			section = GroupCustom
		default:
			if upper != "" && kw.isSectionName(upper) {
				if label := sectionLabelRemainder(cell.Text, kw); label != "" {
					functionality = strPtr(label)
				}
			}
		}
	}
	return section, functionality
}

// sectionLabelRemainder strips the section keywords out of a marker cell's
// text and returns what is left, if anything.
func sectionLabelRemainder(text string, kw *Keywords) string {
	upper := strings.ToUpper(text)
	for _, name := range kw.SectionNames {
		if idx := strings.Index(upper, name); idx >= 0 {
			remainder := text[:idx] + text[idx+len(name):]
			return trimSpace(strings.Trim(remainder, ":-– "))
		}
	}
	return ""
}
