package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/unihub/unidrop/internal/models"
)

// WhatsAppLink returns a wa.me deep link that opens a chat with the store
// number and a prefilled order message. It returns "" when the store has
// no usable number.
func WhatsAppLink(bs *models.BusinessSettings, p *models.Product) string {
	number := digitsOnly(bs.ContactNumber)
	if number == "" {
		return ""
	}
	msg := fmt.Sprintf("Hi %s, I'd like to order %s (%s %s).",
		bs.StoreName, p.Name, bs.Currency, formatPrice(p.SellingPrice))
	text := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return "https://wa.me/" + number + "?text=" + text
}

func formatPrice(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.IsInteger() {
		return d.String()
	}
	return d.StringFixed(2)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
