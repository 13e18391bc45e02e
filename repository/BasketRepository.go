package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"storefront/entities"
	"storefront/models"

	"go.uber.org/zap"
)

const DefaultBasketKey = "luminousScentsBasket"

type BasketRepository interface {
	Load(ctx context.Context) (res entities.LoadResult, err error)
	Save(ctx context.Context, basket entities.Basket) (err error)
	Add(ctx context.Context, productId int) (basket entities.Basket, err error)
	ChangeQuantity(ctx context.Context, productId int, delta int) (basket entities.Basket, changed bool, err error)
	Clear(ctx context.Context) (err error)
	ClearIf(ctx context.Context, decide func(basket entities.Basket) (drop bool, err error)) (err error)
}

// BasketRepo persists one basket as a JSON array under a fixed key.
// Mutations are serialized within the process; writers in other processes
// sharing the same storage overwrite each other.
type BasketRepo struct {
	mu      sync.Mutex
	storage Storage
	key     string
	logger  *zap.Logger
}

func NewBasketRepository(storage Storage, key string, logger *zap.Logger) (*BasketRepo, error) {
	if storage == nil {
		return nil, errors.New("storage must be non-nil")
	}
	if key == "" {
		key = DefaultBasketKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BasketRepo{
		storage: storage,
		key:     key,
		logger:  logger,
	}, nil
}

// Load never fails on stored content: absent content is an empty basket and
// unparsable content is reported as LoadRecovered with an empty basket.
// err is only set when the storage itself cannot be read.
func (r *BasketRepo) Load(ctx context.Context) (res entities.LoadResult, err error) {
	raw, found, err := r.storage.Get(ctx, r.key)
	if err != nil {
		return
	}
	if !found || raw == "" {
		return
	}
	var records []models.BasketEntry_db
	if e := json.Unmarshal([]byte(raw), &records); e != nil {
		r.logger.Warn("could not parse stored basket",
			zap.String("key", r.key),
			zap.Error(e))
		res.Status = entities.LoadRecovered
		res.Cause = e
		return
	}
	basket, coerced, e := entities.BasketFromRecords(records)
	if e != nil {
		r.logger.Warn("could not parse stored basket",
			zap.String("key", r.key),
			zap.Error(e))
		res.Status = entities.LoadRecovered
		res.Cause = e
		return
	}
	if coerced > 0 {
		r.logger.Warn("stored basket had invalid entries",
			zap.String("key", r.key),
			zap.Int("coerced", coerced))
	}
	res.Basket = basket
	return
}

func (r *BasketRepo) Save(ctx context.Context, basket entities.Basket) (err error) {
	jsonData, err := json.Marshal(basket.Records())
	if err != nil {
		r.logger.Error("marshal basket failed", zap.Error(err))
		err = models.ErrServerError
		return
	}
	err = r.storage.Set(ctx, r.key, string(jsonData))
	return
}

func (r *BasketRepo) Add(ctx context.Context, productId int) (basket entities.Basket, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.Load(ctx)
	if err != nil {
		return
	}
	basket = res.Basket
	err = basket.Add(productId)
	if err != nil {
		return
	}
	err = r.Save(ctx, basket)
	return
}

func (r *BasketRepo) ChangeQuantity(ctx context.Context, productId int, delta int) (basket entities.Basket, changed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.Load(ctx)
	if err != nil {
		return
	}
	basket = res.Basket
	changed, err = basket.ChangeQuantity(productId, delta)
	if err != nil || !changed {
		return
	}
	err = r.Save(ctx, basket)
	return
}

func (r *BasketRepo) Clear(ctx context.Context) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	err = r.Save(ctx, entities.Basket{})
	return
}

// ClearIf loads the basket and hands it to decide while holding the mutation
// lock, clearing it when decide says so. No add or change can land between
// the read and the clear.
func (r *BasketRepo) ClearIf(ctx context.Context, decide func(basket entities.Basket) (drop bool, err error)) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.Load(ctx)
	if err != nil {
		return
	}
	drop, err := decide(res.Basket)
	if err != nil || !drop {
		return
	}
	err = r.Save(ctx, entities.Basket{})
	return
}
