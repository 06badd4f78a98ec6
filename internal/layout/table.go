package layout

import "github.com/quotemill/quotemill/internal/domain"

// Item table geometry.
const (
	TableHeaderRowHeight = 8.0
	tableRowPad          = 2.0
	tableCellInset       = 3.0 // horizontal room lost to cell padding when wrapping
	tableRowLine         = 5.0
)

// Column is one table column with its fixed width in millimeters.
type Column struct {
	Title string
	Width float64
	// Align is "C" or "L", in the PDF cell alignment convention.
	Align string
}

// TableWidth is the drawable width of the item table.
func TableWidth() float64 {
	return PageWidth - 2*EdgeMargin
}

// ColumnsFor returns the column layout for a column set. The description
// column absorbs whatever the fixed columns leave over.
func ColumnsFor(set domain.ColumnSet) []Column {
	if set == domain.ColumnsManual {
		return []Column{
			{Title: "Sr. No.", Width: 15, Align: "C"},
			{Title: "Description", Width: TableWidth() - 50, Align: "L"},
			{Title: "Amount", Width: 35, Align: "C"},
		}
	}

	return []Column{
		{Title: "Sr. No.", Width: 15, Align: "C"},
		{Title: "Description", Width: TableWidth() - 115, Align: "L"},
		{Title: "Qty", Width: 20, Align: "C"},
		{Title: "Unit", Width: 20, Align: "C"},
		{Title: "Rate", Width: 30, Align: "C"},
		{Title: "Amount", Width: 30, Align: "C"},
	}
}

// TableRow is one placed row. Total rows have no item; Span marks a
// manual-mode item in a full-column document, whose description cell spans
// the Qty, Unit and Rate columns. Continued marks the later parts of a row
// whose description outgrew a page: only the description carries on, the
// serial and value cells stay blank.
type TableRow struct {
	Serial    int
	Item      *domain.LineItem
	DescLines []string
	Span      bool
	Total     bool
	Continued bool

	Y      float64
	Height float64
}

// TableSegment is the part of the table placed on one page. Every segment
// repeats the column header row at its top.
type TableSegment struct {
	Page int
	Y    float64
	Rows []TableRow
}

// TableContent is the full table layout across its segments.
type TableContent struct {
	Set     domain.ColumnSet
	Columns []Column

	Segments []TableSegment

	// FinalPage and FinalY are where the table ended, which is where flow
	// placement resumes its overflow accounting.
	FinalPage int
	FinalY    float64
}

// descColumnWidth returns the wrap width for description text.
func descColumnWidth(cols []Column) float64 {
	return cols[1].Width - tableCellInset
}

// spanColumnWidth returns the wrap width for a description that spans the
// Qty, Unit and Rate columns of the full column set.
func spanColumnWidth(cols []Column) float64 {
	return cols[1].Width + cols[2].Width + cols[3].Width + cols[4].Width - tableCellInset
}

// rowHeight derives a row's height from its wrapped description.
func rowHeight(descLines int) float64 {
	if descLines < 1 {
		descLines = 1
	}

	return float64(descLines)*tableRowLine + tableRowPad
}
