// README: Invoice and proof-of-delivery spreadsheets (XLSX) for orders and public packages.
package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"sirparcel/internal/types"
)

var TaxRate = decimal.RequireFromString("0.18")

const (
	invoiceSheet = "Invoice"
	companyName  = "Sir Parcel"
	publicBillTo = "Valued Customer"
)

var companyLines = []string{
	"123 Courier Lane, Tech City, 560001",
	"Phone: (080) 1234 5678",
	"Email: contact@sirparcel.com",
}

type InvoiceSummary struct {
	UnitCost decimal.Decimal
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ParsePrice reads "Rs. 1,299.00" style prices. Anything unparseable,
// including "N/A", is zero.
func ParsePrice(p Price) decimal.Decimal {
	s := strings.ReplaceAll(strings.ReplaceAll(string(p), "Rs. ", ""), ",", "")
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Summarize computes the totals for a single-item invoice.
func Summarize(o Order) InvoiceSummary {
	price := ParsePrice(o.Product.Price)
	tax := price.Mul(TaxRate)
	return InvoiceSummary{UnitCost: price, Subtotal: price, Tax: tax, Total: price.Add(tax)}
}

// InvoiceNumber strips the marketplace prefix from an order id.
func InvoiceNumber(id string) string {
	return strings.ReplaceAll(id, "FMPP", "")
}

// Invoice renders the owner's invoice for an order.
func Invoice(id string, o Order, issued time.Time) ([]byte, error) {
	sum := Summarize(o)
	w := newSheetWriter()
	defer w.close()

	w.header(InvoiceNumber(id), issued)
	w.parties(
		[]string{orNA(o.Recipient.Name), orNA(o.Recipient.Address)},
		[]string{orNA(o.Seller.Name), orNA(o.Seller.Address)},
	)
	w.item(orNA(o.Product.Name), formatAmount(sum.UnitCost), formatAmount(sum.Subtotal))
	w.totals(sum)
	w.footer()
	return w.bytes()
}

// ProofOfDelivery renders the public document for a tracked package. The
// recipient is never shown and no prices are printed.
func ProofOfDelivery(waybill string, p PublicPackage, issued time.Time) ([]byte, error) {
	w := newSheetWriter()
	defer w.close()

	w.header(InvoiceNumber(waybill), issued)
	w.parties(
		[]string{publicBillTo, "(Address details available upon login)"},
		[]string{orNA(p.Seller.Name), orNA(p.Seller.Address)},
	)
	w.item(orNA(p.ProductName), NotAvailable, NotAvailable)
	w.footer()
	return w.bytes()
}

func formatAmount(d decimal.Decimal) string {
	return types.GroupThousands(d.StringFixed(2))
}

// sheetWriter keeps the first excelize error so the layout code stays linear.
type sheetWriter struct {
	f   *excelize.File
	row int
	err error
}

func newSheetWriter() *sheetWriter {
	f := excelize.NewFile()
	w := &sheetWriter{f: f, row: 1}
	w.check(f.SetSheetName("Sheet1", invoiceSheet))
	w.check(f.SetColWidth(invoiceSheet, "A", "A", 8))
	w.check(f.SetColWidth(invoiceSheet, "B", "B", 48))
	w.check(f.SetColWidth(invoiceSheet, "C", "D", 16))
	return w
}

func (w *sheetWriter) check(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

func (w *sheetWriter) set(col string, v any) {
	cell, err := excelize.JoinCellName(col, w.row)
	if err != nil {
		w.check(err)
		return
	}
	w.check(w.f.SetCellValue(invoiceSheet, cell, v))
}

func (w *sheetWriter) style(from, to string, s *excelize.Style) {
	id, err := w.f.NewStyle(s)
	if err != nil {
		w.check(err)
		return
	}
	start, _ := excelize.JoinCellName(from, w.row)
	end, _ := excelize.JoinCellName(to, w.row)
	w.check(w.f.SetCellStyle(invoiceSheet, start, end, id))
}

func (w *sheetWriter) header(number string, issued time.Time) {
	w.set("A", "INVOICE")
	w.style("A", "A", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 24}})
	w.set("C", "INVOICE NO.")
	w.set("D", number)
	w.row++
	w.set("A", companyName)
	w.style("A", "A", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	w.set("C", "DATE")
	w.set("D", issued.Format("January 02, 2006"))
	w.row++
	for _, line := range companyLines {
		w.set("A", line)
		w.row++
	}
	w.row++
}

func (w *sheetWriter) parties(billTo, shipFrom []string) {
	w.set("A", "BILL TO")
	w.set("C", "SHIP FROM")
	w.style("A", "D", &excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DCDCDC"}},
	})
	w.row++
	for i := 0; i < len(billTo) || i < len(shipFrom); i++ {
		if i < len(billTo) {
			w.set("A", billTo[i])
		}
		if i < len(shipFrom) {
			w.set("C", shipFrom[i])
		}
		w.row++
	}
	w.row++
}

func (w *sheetWriter) item(name, unit, total string) {
	w.set("A", "QTY")
	w.set("B", "DESCRIPTION")
	w.set("C", "UNIT COST")
	w.set("D", "TOTAL")
	w.style("A", "D", &excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"323232"}},
	})
	w.row++
	w.set("A", 1)
	w.set("B", name)
	w.set("C", unit)
	w.set("D", total)
	w.row += 2
}

func (w *sheetWriter) totals(sum InvoiceSummary) {
	w.set("C", "SUBTOTAL")
	w.set("D", formatAmount(sum.Subtotal))
	w.row++
	w.set("C", "TAX (18%)")
	w.set("D", formatAmount(sum.Tax))
	w.row++
	w.set("C", "TOTAL")
	w.set("D", "Rs. "+formatAmount(sum.Total))
	w.style("C", "D", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	w.row += 2
}

func (w *sheetWriter) footer() {
	w.set("A", "Thank you for your business!")
	w.style("A", "A", &excelize.Style{Font: &excelize.Font{Italic: true, Color: "969696"}})
}

func (w *sheetWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *sheetWriter) close() {
	_ = w.f.Close()
}
