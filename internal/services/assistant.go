package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/unihub/unidrop/internal/ai"
	"github.com/unihub/unidrop/internal/models"
)

// Placeholders shown when the gateway fails.
const (
	CopyFallback           = "Description unavailable right now. Please write one manually."
	PricingAdviceFallback  = "Pricing advice is unavailable right now. Try again later."
	OrderInsightsFallback  = "Order insights are unavailable right now. Try again later."
	RecommendationFallback = "Popular picks you might also like."
)

// maxPromptProducts bounds the catalog summary sent with a prompt.
const maxPromptProducts = 200

// Recommendation is a short rationale plus the suggested products.
type Recommendation struct {
	Reason   string           `json:"reason"`
	Products []models.Product `json:"products"`
}

// Assistant wraps the AI gateway. Gateway errors are logged and replaced
// by fallbacks; they never reach the caller. Calls are not retried.
type Assistant struct {
	gateway ai.Gateway
	log     *slog.Logger
}

func NewAssistant(gateway ai.Gateway, logger *slog.Logger) *Assistant {
	if gateway == nil {
		gateway = ai.Disabled{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{gateway: gateway, log: logger}
}

func (a *Assistant) text(ctx context.Context, op, prompt, fallback string) string {
	out, err := a.gateway.CompleteText(ctx, prompt)
	if err != nil {
		a.log.Warn("ai completion failed", "op", op, "err", err)
		return fallback
	}
	return out
}

// MarketingCopy writes a short storefront description for p.
func (a *Assistant) MarketingCopy(ctx context.Context, p *models.Product) string {
	prompt := fmt.Sprintf(
		"Write a catchy two-sentence product description for university students.\n"+
			"Product: %s\nCategory: %s\nDetails: %s\nReply with the description only.",
		p.Name, p.Category, nonEmpty(p.Description, "none"))
	return a.text(ctx, "marketing_copy", prompt, CopyFallback)
}

// PricingAdvice comments on p's price at the given markup.
func (a *Assistant) PricingAdvice(ctx context.Context, p *models.Product, markupPercent float64, currency string) string {
	prompt := fmt.Sprintf(
		"You advise a student dropshipping store. Source cost %s %s, selling price %s %s, "+
			"delivery cost %s %s, target markup %s%%. Product: %s (%s). "+
			"In under 60 words, say whether the price is competitive for students and suggest an adjustment.",
		currency, formatPrice(p.SourcePrice), currency, formatPrice(p.SellingPrice),
		currency, formatPrice(p.DeliveryCost), formatPrice(markupPercent), p.Name, p.Category)
	return a.text(ctx, "pricing_advice", prompt, PricingAdviceFallback)
}

// OrderInsights summarizes recent orders for the admin dashboard.
func (a *Assistant) OrderInsights(ctx context.Context, orders []models.Order) string {
	if len(orders) == 0 {
		return "No orders yet."
	}
	var b strings.Builder
	b.WriteString("Analyse these student store orders and give three short, actionable insights.\n")
	for i, o := range orders {
		if i == maxPromptProducts {
			break
		}
		fmt.Fprintf(&b, "- %s | %s | status %s | payment %s | paid %s | profit %s\n",
			o.OrderedAt.Format("2006-01-02"), o.ProductName, o.Status, o.PaymentStatus,
			formatPrice(o.AmountPaid), formatPrice(o.Profit))
	}
	return a.text(ctx, "order_insights", b.String(), OrderInsightsFallback)
}

type searchResult struct {
	MatchingIDs []string `json:"matchingIds"`
}

var searchSchema = ai.Object(map[string]ai.Schema{"matchingIds": ai.StringArray()})

// Search returns the catalog products the model matched to query, in the
// model's order. Unknown ids are dropped. Failures yield no results.
func (a *Assistant) Search(ctx context.Context, query string, products []models.Product) []models.Product {
	query = strings.TrimSpace(query)
	if query == "" || len(products) == 0 {
		return nil
	}
	prompt := fmt.Sprintf(
		"A student is searching a campus store for: %q.\nCatalog (id | name | category | description):\n%s"+
			"Return the ids of every relevant product as matchingIds.",
		query, catalogLines(products))
	var res searchResult
	if err := a.gateway.CompleteJSON(ctx, prompt, searchSchema, &res); err != nil {
		a.log.Warn("ai search failed", "err", err)
		return nil
	}
	return pick(products, res.MatchingIDs, nil)
}

type recommendResult struct {
	Reason     string   `json:"reason"`
	ProductIDs []string `json:"productIds"`
}

var recommendSchema = ai.Object(map[string]ai.Schema{
	"reason":     ai.String(),
	"productIds": ai.StringArray(),
})

// Recommend suggests products to go with the cart. On failure it falls
// back to the first two catalog products not already in the cart.
func (a *Assistant) Recommend(ctx context.Context, cart []string, products []models.Product) Recommendation {
	if len(products) == 0 {
		return Recommendation{Reason: RecommendationFallback, Products: []models.Product{}}
	}
	inCart := make(map[string]bool, len(cart))
	var cartNames []string
	for _, id := range cart {
		inCart[id] = true
	}
	for _, p := range products {
		if inCart[p.ID] {
			cartNames = append(cartNames, p.Name)
		}
	}

	prompt := fmt.Sprintf(
		"A student has these items in their cart: %s.\nCatalog (id | name | category | description):\n%s"+
			"Recommend up to three other products they would likely buy. "+
			"Return productIds and a one-sentence reason.",
		nonEmpty(strings.Join(cartNames, ", "), "nothing yet"), catalogLines(products))
	var res recommendResult
	err := a.gateway.CompleteJSON(ctx, prompt, recommendSchema, &res)
	if err == nil {
		picked := pick(products, res.ProductIDs, inCart)
		if len(picked) > 0 && strings.TrimSpace(res.Reason) != "" {
			return Recommendation{Reason: strings.TrimSpace(res.Reason), Products: picked}
		}
		err = fmt.Errorf("response named no usable products")
	}
	a.log.Warn("ai recommendation failed", "err", err)
	return Recommendation{Reason: RecommendationFallback, Products: fallbackPicks(products, inCart, 2)}
}

func catalogLines(products []models.Product) string {
	var b strings.Builder
	for i, p := range products {
		if i == maxPromptProducts {
			break
		}
		desc := p.Description
		if r := []rune(desc); len(r) > 120 {
			desc = string(r[:120])
		}
		fmt.Fprintf(&b, "%s | %s | %s | %s\n", p.ID, p.Name, p.Category, strings.ReplaceAll(desc, "\n", " "))
	}
	return b.String()
}

// pick maps ids to catalog products, skipping unknown, duplicate and
// excluded ids.
func pick(products []models.Product, ids []string, exclude map[string]bool) []models.Product {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	seen := make(map[string]bool, len(ids))
	out := []models.Product{}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || seen[id] || exclude[id] {
			continue
		}
		seen[id] = true
		out = append(out, p)
	}
	return out
}

// fallbackPicks returns the first n products, preferring ones outside the cart.
func fallbackPicks(products []models.Product, inCart map[string]bool, n int) []models.Product {
	out := make([]models.Product, 0, n)
	for _, p := range products {
		if len(out) == n {
			return out
		}
		if !inCart[p.ID] {
			out = append(out, p)
		}
	}
	for _, p := range products {
		if len(out) == n {
			break
		}
		if inCart[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
