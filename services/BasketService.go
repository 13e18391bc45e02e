package services

import (
	"context"

	"storefront/entities"
	"storefront/repository"

	"go.uber.org/zap"
)

const AddedToBasketMessage = "Added to basket"

type BasketService struct {
	br     repository.BasketRepository
	ps     PricingService
	n      Notifier
	logger *zap.Logger
}

func NewBasketService(basketRepo repository.BasketRepository, pricing PricingService, notifier Notifier, logger *zap.Logger) BasketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return BasketService{
		br:     basketRepo,
		ps:     pricing,
		n:      notifier,
		logger: logger,
	}
}

func (bs *BasketService) AddToBasket(ctx context.Context, productId int) (view entities.BasketView, err error) {
	basket, err := bs.br.Add(ctx, productId)
	if err != nil {
		return
	}
	bs.logger.Debug("added to basket", zap.Int("product_id", productId))
	view = bs.ps.View(basket)
	bs.n.Confirm(AddedToBasketMessage)
	bs.n.BasketChanged(view)
	return
}

// ChangeQuantity is a no-op for products not in the basket; no signal is sent then.
func (bs *BasketService) ChangeQuantity(ctx context.Context, productId int, delta int) (view entities.BasketView, err error) {
	basket, changed, err := bs.br.ChangeQuantity(ctx, productId, delta)
	if err != nil {
		return
	}
	view = bs.ps.View(basket)
	if changed {
		bs.logger.Debug("basket quantity changed",
			zap.Int("product_id", productId),
			zap.Int("delta", delta))
		bs.n.BasketChanged(view)
	}
	return
}

func (bs *BasketService) ClearBasket(ctx context.Context) (view entities.BasketView, err error) {
	err = bs.br.Clear(ctx)
	if err != nil {
		return
	}
	view = bs.ps.View(entities.Basket{})
	bs.n.BasketChanged(view)
	return
}

func (bs *BasketService) GetBasket(ctx context.Context) (view entities.BasketView, err error) {
	return bs.ps.GetPricing(ctx)
}
