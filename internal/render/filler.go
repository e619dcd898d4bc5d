package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/rs/zerolog"

	"poscan/internal/logger"
	"poscan/pkg/models"
)

// GenerateInvoiceNumber produces a unique invoice number of the form
// INV-yymmddHHMM-XXX where XXX is a random hex suffix.
func GenerateInvoiceNumber() string {
	id := uuid.New()
	suffix := strings.ToUpper(fmt.Sprintf("%x", id[:2])[:3])
	return fmt.Sprintf("INV-%s-%s", time.Now().Format("0601021504"), suffix)
}

// Renderer stamps payload values onto blank invoice templates.
type Renderer struct {
	log zerolog.Logger
}

// NewRenderer returns a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{log: logger.WithComponent("render")}
}

// stamp is one text placement queued for the template page.
type stamp struct {
	text  string
	field Field
}

// FillInvoice stamps the payload onto the template and writes the finished
// invoice PDF to outputPath. It returns the generated invoice number.
func (r *Renderer) FillInvoice(payload models.Payload, templatePath, layoutName, outputPath string) (string, error) {
	const op = "FillInvoice"

	layout, err := LayoutFor(layoutName)
	if err != nil {
		return "", err
	}

	tmpl, err := os.ReadFile(templatePath)
	if err != nil {
		return "", WrapRenderError(op, ErrTemplateNotFound, templatePath)
	}

	invoiceNo := GenerateInvoiceNumber()
	stamps := collectStamps(payload, invoiceNo, layout)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	current := tmpl
	for _, st := range stamps {
		if st.text == "" {
			continue
		}
		wm, err := api.TextWatermark(st.text, describe(st.field, st.text), true, false, types.POINTS)
		if err != nil {
			return "", WrapRenderError(op, err, st.text)
		}
		var buf bytes.Buffer
		if err := api.AddWatermarks(bytes.NewReader(current), &buf, []string{"1"}, wm, conf); err != nil {
			return "", WrapRenderError(op, err, st.text)
		}
		current = buf.Bytes()
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", WrapRenderError(op, err, dir)
		}
	}
	if err := os.WriteFile(outputPath, current, 0o644); err != nil {
		return "", WrapRenderError(op, err, outputPath)
	}

	r.log.Info().
		Str("invoice_number", invoiceNo).
		Str("output", outputPath).
		Int("stamps", len(stamps)).
		Msg("invoice rendered")

	return invoiceNo, nil
}

// collectStamps lays the payload out against the coordinate map. Optional
// totals are stamped only when present; line items beyond the grid capacity
// are dropped.
func collectStamps(p models.Payload, invoiceNo string, l Layout) []stamp {
	cur := p.Header.Currency

	stamps := []stamp{
		{p.Header.PONumber, l.PONumber},
		{invoiceNo, l.InvoiceNumber},
		{formatDate(p.Header.PostingDate), l.PostingDate},
		{formatDate(p.Header.DueDate), l.DueDate},
	}

	items := p.LineItems
	if len(items) > l.Table.MaxRows {
		items = items[:l.Table.MaxRows]
	}
	for i, it := range items {
		y := l.Table.StartY - float64(i)*l.Table.RowHeight
		row := func(f Field) Field {
			f.Y = y
			return f
		}
		stamps = append(stamps,
			stamp{strconv.Itoa(i + 1), row(l.Table.LineNo)},
			stamp{it.ItemNo, row(l.Table.ItemNo)},
			stamp{truncate(it.Description, l.Table.DescLimit), row(l.Table.Description)},
			stamp{strconv.Itoa(it.Quantity), row(l.Table.Quantity)},
			stamp{formatMoney(&it.UnitPrice, cur), row(l.Table.UnitPrice)},
			stamp{it.TaxCode, row(l.Table.TaxCode)},
			stamp{formatMoney(&it.LineTotal, cur), row(l.Table.LineTotal)},
		)
	}

	stamps = append(stamps,
		stamp{formatMoney(p.Totals.TotalBeforeDiscount, cur), l.TotalBeforeDiscount},
		stamp{formatMoney(p.Totals.Discount, cur), l.Discount},
		stamp{formatMoney(p.Totals.Freight, cur), l.Freight},
		stamp{formatMoney(p.Totals.Tax, cur), l.Tax},
		stamp{formatMoney(p.Totals.TotalDue, cur), l.TotalDue},
	)
	return stamps
}

// describe builds the watermark parameter string for one placement. pdfcpu
// anchors text at the given offset from the bottom-left page corner, so
// center and right alignment are approximated by shifting the anchor left
// by the estimated text width.
func describe(f Field, text string) string {
	x := f.X
	switch f.Align {
	case AlignCenter:
		x -= estimateWidth(text, f.Size) / 2
	case AlignRight:
		x -= estimateWidth(text, f.Size)
	}

	font := "Helvetica"
	if f.Bold {
		font = "Helvetica-Bold"
	}
	color := "#000000"
	if f.White {
		color = "#ffffff"
	}

	return fmt.Sprintf(
		"fontname:%s, points:%d, scalefactor:1 abs, position:bl, offset:%.1f %.1f, fillcolor:%s, rotation:0, opacity:1",
		font, f.Size, x, f.Y, color)
}

// estimateWidth approximates rendered text width using the average glyph
// width of Helvetica at the given size.
func estimateWidth(text string, size int) float64 {
	return float64(len(text)) * float64(size) * 0.5
}

// truncate clips a string to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// formatDate converts an ISO date to the MM/DD/YY display format used on
// the templates. Anything unparsable passes through unchanged.
func formatDate(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("01/02/06")
}

// formatMoney renders a money value as "CUR 1,234.56". A nil value renders
// as the empty string so the stamp is skipped.
func formatMoney(m *models.Money, currency string) string {
	if m == nil {
		return ""
	}
	s := m.Amount.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	grouped := b.String() + "." + fracPart
	if neg {
		grouped = "-" + grouped
	}
	return strings.TrimSpace(currency + " " + grouped)
}
