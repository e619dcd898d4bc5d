// Package render stamps extracted purchase order data onto blank vendor
// invoice templates. Each vendor has a coordinate layout mapping payload
// fields to fixed positions on the template page; the stamping itself layers
// text watermarks onto the PDF without touching the template artwork.
package render

import "sort"

// Align controls horizontal anchoring of a stamped value.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Field is one stamped value: its anchor point in PDF points measured from
// the bottom-left page corner, font size, alignment and style.
type Field struct {
	X, Y  float64
	Size  int
	Align Align
	Bold  bool
	White bool
}

// Table describes the line item grid of a template.
type Table struct {
	StartY    float64
	RowHeight float64
	MaxRows   int
	DescLimit int

	LineNo      Field
	ItemNo      Field
	Description Field
	Quantity    Field
	UnitPrice   Field
	TaxCode     Field
	LineTotal   Field
}

// Layout is the full coordinate map for one vendor's template page.
type Layout struct {
	PageWidth  float64
	PageHeight float64

	PONumber      Field
	InvoiceNumber Field
	PostingDate   Field
	DueDate       Field

	Table Table

	TotalBeforeDiscount Field
	Discount            Field
	Freight             Field
	Tax                 Field
	TotalDue            Field
}

// Header values sit below their printed labels on the right edge, all
// right-aligned to the label column. Totals print in white bold over the
// colored footer band, each value just right of its label.
var layouts = map[string]Layout{
	"acme_associates": {
		PageWidth:  612,
		PageHeight: 792,

		PONumber:      Field{X: 590, Y: 583, Size: 8, Align: AlignRight},
		InvoiceNumber: Field{X: 590, Y: 560, Size: 7, Align: AlignRight},
		PostingDate:   Field{X: 590, Y: 537, Size: 8, Align: AlignRight},
		DueDate:       Field{X: 590, Y: 507, Size: 8, Align: AlignRight},

		Table: Table{
			StartY:    448,
			RowHeight: 20,
			MaxRows:   10,
			DescLimit: 22,

			LineNo:      Field{X: 32, Size: 8, Align: AlignCenter},
			ItemNo:      Field{X: 70, Size: 8},
			Description: Field{X: 145, Size: 8},
			Quantity:    Field{X: 363, Size: 8, Align: AlignCenter},
			UnitPrice:   Field{X: 432, Size: 8, Align: AlignCenter},
			TaxCode:     Field{X: 508, Size: 8, Align: AlignCenter},
			LineTotal:   Field{X: 593, Size: 8, Align: AlignRight},
		},

		TotalBeforeDiscount: Field{X: 472, Y: 197, Size: 9, Bold: true, White: true},
		Discount:            Field{X: 426, Y: 175, Size: 9, Bold: true, White: true},
		Freight:             Field{X: 395, Y: 153, Size: 9, Bold: true, White: true},
		Tax:                 Field{X: 377, Y: 131, Size: 9, Bold: true, White: true},
		TotalDue:            Field{X: 457, Y: 109, Size: 10, Bold: true, White: true},
	},
}

// LayoutFor returns the coordinate layout registered under name.
func LayoutFor(name string) (Layout, error) {
	l, ok := layouts[name]
	if !ok {
		return Layout{}, WrapRenderError("LayoutFor", ErrUnknownLayout, name)
	}
	return l, nil
}

// LayoutNames returns the registered layout names, sorted.
func LayoutNames() []string {
	names := make([]string, 0, len(layouts))
	for k := range layouts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
