package handlers

import (
	"time"

	"storefront/entities"
	"storefront/models"

	"github.com/shopspring/decimal"
)

const (
	currencySymbol = "£"
	freeShipping   = "FREE"
	emptyBasket    = "Your basket is empty."
)

// FormatPrice renders an amount with the currency symbol and two decimals.
func FormatPrice(d decimal.Decimal) string {
	return currencySymbol + d.StringFixed(2)
}

func FormatShipping(d decimal.Decimal) string {
	if d.IsZero() {
		return freeShipping
	}
	return FormatPrice(d)
}

type productResponse struct {
	Id          int    `json:"id"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Notes       string `json:"notes"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

func newProductResponse(p models.Product) productResponse {
	return productResponse{
		Id:          p.Id,
		Name:        p.Name,
		Brand:       p.Brand,
		Notes:       p.Notes,
		Description: p.Description,
		Price:       FormatPrice(p.UnitPrice),
	}
}

type lineResponse struct {
	ProductId int    `json:"productId"`
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
}

type pricingResponse struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

type basketResponse struct {
	Lines   []lineResponse  `json:"lines"`
	Pricing pricingResponse `json:"pricing"`
	Message string          `json:"message,omitempty"`
}

type confirmationResponse struct {
	Reference       string          `json:"reference"`
	PlacedAt        string          `json:"placedAt"`
	Lines           []lineResponse  `json:"lines"`
	Pricing         pricingResponse `json:"pricing"`
	PaymentMethod   string          `json:"paymentMethod"`
	CardLast4       string          `json:"cardLast4,omitempty"`
	CardFingerprint string          `json:"cardFingerprint,omitempty"`
	Message         string          `json:"message"`
}

func newLineResponses(lines []entities.OrderLine) []lineResponse {
	out := make([]lineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineResponse{
			ProductId: l.Product.Id,
			Name:      l.Product.Name,
			Brand:     l.Product.Brand,
			Quantity:  l.Quantity,
			UnitPrice: FormatPrice(l.Product.UnitPrice),
			LineTotal: FormatPrice(l.LineTotal),
		})
	}
	return out
}

func newPricingResponse(p entities.PricingBreakdown) pricingResponse {
	return pricingResponse{
		Subtotal: FormatPrice(p.Subtotal),
		Shipping: FormatShipping(p.ShippingFee),
		Tax:      FormatPrice(p.TaxAmount),
		Total:    FormatPrice(p.Total),
	}
}

func newBasketResponse(view entities.BasketView, message string) basketResponse {
	if len(view.Lines) == 0 && message == "" {
		message = emptyBasket
	}
	return basketResponse{
		Lines:   newLineResponses(view.Lines),
		Pricing: newPricingResponse(view.Pricing),
		Message: message,
	}
}

func newConfirmationResponse(c entities.OrderConfirmation) confirmationResponse {
	return confirmationResponse{
		Reference:       c.Reference.String(),
		PlacedAt:        c.PlacedAt.Format(time.RFC3339),
		Lines:           newLineResponses(c.Lines),
		Pricing:         newPricingResponse(c.Pricing),
		PaymentMethod:   string(c.PaymentMethod),
		CardLast4:       c.CardLast4,
		CardFingerprint: c.CardFingerprint,
		Message:         c.Message,
	}
}
