package services

import (
	"context"

	"storefront/entities"
	"storefront/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// Orders strictly above the threshold ship free.
	FreeShippingThreshold = decimal.RequireFromString("75.00")
	StandardShippingFee   = decimal.RequireFromString("4.99")
	TaxRate               = decimal.RequireFromString("0.20")
)

// Resolve joins basket entries against the catalog in basket order. Entries
// whose product is no longer in the catalog are left out.
func Resolve(basket entities.Basket, catalog repository.CatalogRepository) []entities.OrderLine {
	lines := make([]entities.OrderLine, 0, basket.Len())
	for _, e := range basket.Entries() {
		p, ok := catalog.GetProduct(e.ProductId)
		if !ok {
			continue
		}
		lines = append(lines, entities.OrderLine{
			Product:   p,
			Quantity:  e.Quantity,
			LineTotal: p.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity))),
		})
	}
	return lines
}

// Price derives the breakdown with exact decimal arithmetic; rounding is
// left to whoever displays the amounts. Tax applies to the subtotal only.
func Price(lines []entities.OrderLine) entities.PricingBreakdown {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal)
	}
	shipping := StandardShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(TaxRate)
	return entities.PricingBreakdown{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		TaxAmount:   tax,
		Total:       subtotal.Add(shipping).Add(tax),
	}
}

type PricingService struct {
	br     repository.BasketRepository
	cr     repository.CatalogRepository
	logger *zap.Logger
}

func NewPricingService(basketRepo repository.BasketRepository, catalog repository.CatalogRepository, logger *zap.Logger) PricingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return PricingService{
		br:     basketRepo,
		cr:     catalog,
		logger: logger,
	}
}

// View resolves and prices an already loaded basket.
func (ps *PricingService) View(basket entities.Basket) entities.BasketView {
	lines := Resolve(basket, ps.cr)
	if dropped := basket.Len() - len(lines); dropped > 0 {
		ps.logger.Debug("basket references products missing from catalog", zap.Int("dropped", dropped))
	}
	return entities.BasketView{
		Lines:   lines,
		Pricing: Price(lines),
	}
}

func (ps *PricingService) GetPricing(ctx context.Context) (view entities.BasketView, err error) {
	res, err := ps.br.Load(ctx)
	if err != nil {
		return
	}
	view = ps.View(res.Basket)
	return
}
