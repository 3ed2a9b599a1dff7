package orders

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
)

const invoiceTitle = "BUYBUDDY - OFFICIAL INVOICE"

// invoiceFilename names the attachment served for an order.
func invoiceFilename(order models.Order) string {
	return fmt.Sprintf("Invoice_%s.pdf", order.ID)
}

type invoiceLayout struct {
	Header []string
	Items  []string
	Total  string
}

func buildInvoiceLayout(order models.Order, customer models.User) invoiceLayout {
	method, status := "N/A", "N/A"
	if order.Payment != nil {
		method = order.Payment.Method.Label()
		status = string(order.Payment.Status)
	}

	layout := invoiceLayout{
		Header: []string{
			fmt.Sprintf("Invoice No: BB-INV-%s", order.ID),
			fmt.Sprintf("Order Date: %s", order.CreatedAt.Format("2006-01-02")),
			fmt.Sprintf("Customer: %s", customer.DisplayName()),
			fmt.Sprintf("Payment Method: %s", method),
			fmt.Sprintf("Payment Status: %s", status),
			fmt.Sprintf("Shipping Address: %s, %s, %s", order.ShippingFullName, order.ShippingPhone, order.ShippingAddress),
		},
		Items: make([]string, 0, len(order.Items)),
		Total: fmt.Sprintf("Total Amount: Rs %s", order.TotalAmount.StringFixed(2)),
	}
	for _, item := range order.Items {
		layout.Items = append(layout.Items,
			fmt.Sprintf("%s (x%d) - Rs %s", item.ProductName, item.Quantity, item.UnitPrice.StringFixed(2)))
	}
	return layout
}

// renderInvoice lays the invoice out on a single A4 page.
func renderInvoice(layout invoiceLayout) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(invoiceTitle, false)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, invoiceTitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range layout.Header {
		pdf.MultiCell(0, 6, tr(line), "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Items", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range layout.Items {
		pdf.MultiCell(0, 6, tr(line), "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr(layout.Total), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}
