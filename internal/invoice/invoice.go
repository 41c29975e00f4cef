// Package invoice projects a placed order into the invoice and payment
// confirmation shown to the shopper. It has no side effects.
package invoice

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"batik-store/internal/model"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// wib is Western Indonesia Time, used for every displayed date.
var wib = time.FixedZone("WIB", 7*60*60)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// BankDetails is where shoppers send manual bank transfers.
type BankDetails struct {
	BankName       string `json:"bankName"`
	AccountNumber  string `json:"accountNumber"`
	AccountHolder  string `json:"accountHolder"`
	WhatsAppNumber string `json:"whatsappNumber"`
}

// Line is one rendered order line.
type Line struct {
	ProductID     int64  `json:"productId"`
	Name          string `json:"name"`
	Image         string `json:"image,omitempty"`
	Quantity      int    `json:"quantity"`
	UnitPrice     int64  `json:"unitPrice"`
	LineTotal     int64  `json:"lineTotal"`
	UnitPriceText string `json:"unitPriceText"`
	LineTotalText string `json:"lineTotalText"`
}

// Invoice is the printable projection of an order.
type Invoice struct {
	OrderID             string         `json:"orderId"`
	Status              model.Status   `json:"status"`
	Date                string         `json:"date"`
	CreatedAt           time.Time      `json:"createdAt"`
	Customer            model.Customer `json:"customer"`
	Lines               []Line         `json:"lines"`
	Subtotal            int64          `json:"subtotal"`
	ShippingFee         int64          `json:"shippingFee"`
	Total               int64          `json:"total"`
	SubtotalText        string         `json:"subtotalText"`
	ShippingFeeText     string         `json:"shippingFeeText"`
	TotalText           string         `json:"totalText"`
	PaymentMethod       string         `json:"paymentMethod"`
	Notes               string         `json:"notes,omitempty"`
	Bank                BankDetails    `json:"bank"`
	ConfirmationMessage string         `json:"confirmationMessage"`
	WhatsAppURL         string         `json:"whatsappUrl"`
}

// Renderer builds invoices and confirmation messages.
type Renderer struct {
	bank    BankDetails
	printer *message.Printer
	now     func() time.Time
}

// NewRenderer creates a renderer for the given bank details.
func NewRenderer(bank BankDetails) *Renderer {
	return &Renderer{
		bank:    bank,
		printer: message.NewPrinter(language.Indonesian),
		now:     time.Now,
	}
}

// FormatRupiah renders an amount like "Rp250.000".
func (r *Renderer) FormatRupiah(amount int64) string {
	if amount < 0 {
		return "-Rp" + r.printer.Sprintf("%d", -amount)
	}
	return "Rp" + r.printer.Sprintf("%d", amount)
}

// FormatDate renders t like "19 Oktober 2026" in WIB.
func FormatDate(t time.Time) string {
	t = t.In(wib)
	return fmt.Sprintf("%d %s %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// Render projects order into an invoice.
func (r *Renderer) Render(order *model.Order) *Invoice {
	inv := &Invoice{
		OrderID:         order.ID,
		Status:          order.Status,
		Date:            FormatDate(order.CreatedAt),
		CreatedAt:       order.CreatedAt,
		Customer:        order.Customer,
		Lines:           make([]Line, len(order.Items)),
		Subtotal:        order.Subtotal,
		ShippingFee:     order.ShippingFee,
		Total:           order.Total,
		SubtotalText:    r.FormatRupiah(order.Subtotal),
		ShippingFeeText: r.FormatRupiah(order.ShippingFee),
		TotalText:       r.FormatRupiah(order.Total),
		PaymentMethod:   order.PaymentMethod,
		Notes:           order.Notes,
		Bank:            r.bank,
	}

	for i, it := range order.Items {
		inv.Lines[i] = Line{
			ProductID:     it.ProductID,
			Name:          it.Name,
			Image:         it.Image,
			Quantity:      it.Quantity,
			UnitPrice:     it.Price,
			LineTotal:     it.LineSubtotal,
			UnitPriceText: r.FormatRupiah(it.Price),
			LineTotalText: r.FormatRupiah(it.LineSubtotal),
		}
	}

	inv.ConfirmationMessage = r.ConfirmationMessage(order.ID, order.Customer, order.Total)
	inv.WhatsAppURL = r.WhatsAppURL(inv.ConfirmationMessage)
	return inv
}

// ConfirmationMessage builds the pre-filled payment confirmation text,
// dated today.
func (r *Renderer) ConfirmationMessage(orderID string, customer model.Customer, total int64) string {
	today := r.now().In(wib)

	var b strings.Builder
	fmt.Fprintf(&b, "Halo, saya ingin konfirmasi pembayaran untuk pesanan *%s*\n\n", orderID)
	fmt.Fprintf(&b, "Nama: %s\n", customer.Name)
	fmt.Fprintf(&b, "Email: %s\n", customer.Email)
	fmt.Fprintf(&b, "Total Pembayaran: %s\n", r.FormatRupiah(total))
	fmt.Fprintf(&b, "Tanggal Transfer: %d/%d/%d\n", today.Day(), int(today.Month()), today.Year())
	b.WriteString("Bank Pengirim: \n")
	b.WriteString("Atas Nama: \n\n")
	b.WriteString("Terima kasih.")
	return b.String()
}

// WhatsAppURL returns a wa.me link that opens a chat with msg pre-filled.
func (r *Renderer) WhatsAppURL(msg string) string {
	text := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", r.bank.WhatsAppNumber, text)
}

// Confirmation builds the checkout confirmation for a freshly placed order.
func (r *Renderer) Confirmation(order *model.Order) *model.OrderConfirmation {
	msg := r.ConfirmationMessage(order.ID, order.Customer, order.Total)
	return &model.OrderConfirmation{
		OrderID:        order.ID,
		Total:          order.Total,
		CreatedAt:      order.CreatedAt,
		PaymentMessage: msg,
		WhatsAppURL:    r.WhatsAppURL(msg),
	}
}
