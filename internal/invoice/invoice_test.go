package invoice

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"batik-store/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRenderer() *Renderer {
	r := NewRenderer(BankDetails{
		BankName:       "Bank Mandiri",
		AccountNumber:  "1234567890",
		AccountHolder:  "PT Batik Nusantara",
		WhatsAppNumber: "6281234567890",
	})
	r.now = func() time.Time { return time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC) }
	return r
}

func testOrder() *model.Order {
	return &model.Order{
		ID: "BN-20261018170000-0001ABCDEF",
		Customer: model.Customer{
			Name:       "Siti Rahayu",
			Email:      "siti@example.com",
			Address:    "Jl. Malioboro 12",
			City:       "Yogyakarta",
			PostalCode: "55213",
		},
		Items: []model.OrderItem{
			{ProductID: 1, Name: "Batik Parang", Price: 100000, Quantity: 2, LineSubtotal: 200000},
		},
		Subtotal:      200000,
		ShippingFee:   20000,
		Total:         220000,
		PaymentMethod: model.PaymentBankTransfer,
		Status:        model.StatusPending,
		CreatedAt:     time.Date(2026, 10, 18, 17, 30, 0, 0, time.UTC),
	}
}

func TestFormatRupiah(t *testing.T) {
	r := testRenderer()

	assert.Equal(t, "Rp0", r.FormatRupiah(0))
	assert.Equal(t, "Rp20.000", r.FormatRupiah(20000))
	assert.Equal(t, "Rp1.250.000", r.FormatRupiah(1250000))
	assert.Equal(t, "-Rp5.000", r.FormatRupiah(-5000))
}

func TestFormatDate_UsesWIB(t *testing.T) {
	// 17:30 UTC is already the next day in Jakarta.
	assert.Equal(t, "19 Oktober 2026", FormatDate(time.Date(2026, 10, 18, 17, 30, 0, 0, time.UTC)))
	assert.Equal(t, "1 Januari 2026", FormatDate(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRender(t *testing.T) {
	inv := testRenderer().Render(testOrder())

	assert.Equal(t, "BN-20261018170000-0001ABCDEF", inv.OrderID)
	assert.Equal(t, "19 Oktober 2026", inv.Date)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "Rp100.000", inv.Lines[0].UnitPriceText)
	assert.Equal(t, "Rp200.000", inv.Lines[0].LineTotalText)
	assert.Equal(t, "Rp20.000", inv.ShippingFeeText)
	assert.Equal(t, "Rp220.000", inv.TotalText)
	assert.Equal(t, "Bank Mandiri", inv.Bank.BankName)
	assert.Equal(t, inv.Subtotal+inv.ShippingFee, inv.Total)
}

func TestConfirmationMessage(t *testing.T) {
	r := testRenderer()
	o := testOrder()

	msg := r.ConfirmationMessage(o.ID, o.Customer, o.Total)

	assert.True(t, strings.HasPrefix(msg, "Halo, saya ingin konfirmasi pembayaran untuk pesanan *BN-20261018170000-0001ABCDEF*"))
	assert.Contains(t, msg, "Nama: Siti Rahayu\n")
	assert.Contains(t, msg, "Email: siti@example.com\n")
	assert.Contains(t, msg, "Total Pembayaran: Rp220.000\n")
	assert.Contains(t, msg, "Tanggal Transfer: 19/10/2026\n")
	assert.True(t, strings.HasSuffix(msg, "Terima kasih."))
}

func TestWhatsAppURL(t *testing.T) {
	r := testRenderer()
	msg := "Halo *BN-1*\nTotal: Rp20.000"

	link := r.WhatsAppURL(msg)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/6281234567890?text="))
	assert.NotContains(t, link, "+")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, msg, u.Query().Get("text"))
}

func TestConfirmation(t *testing.T) {
	o := testOrder()
	c := testRenderer().Confirmation(o)

	assert.Equal(t, o.ID, c.OrderID)
	assert.Equal(t, int64(220000), c.Total)
	assert.Equal(t, o.CreatedAt, c.CreatedAt)
	assert.Contains(t, c.PaymentMessage, o.ID)
	assert.Contains(t, c.WhatsAppURL, "wa.me")
}
