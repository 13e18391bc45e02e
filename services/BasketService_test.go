package services

import (
	"context"
	"testing"

	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToBasket_Signals(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	view, err := f.basket.AddToBasket(ctx, 2)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, []string{AddedToBasketMessage}, f.notifier.confirmations)
	require.Len(t, f.notifier.changes, 1)
	assert.Equal(t, view, f.notifier.changes[0])
}

// TestAddToBasket_UnknownProduct verifies unknown ids are stored but not displayed.
func TestAddToBasket_UnknownProduct(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	view, err := f.basket.AddToBasket(ctx, 404)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	res, err := f.repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Basket.Len())
}

func TestAddToBasket_InvalidId(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.basket.AddToBasket(context.Background(), -1)
	assert.ErrorIs(t, err, models.ErrInvalidEntry)
	assert.Empty(t, f.notifier.confirmations)
}

// TestChangeQuantity_SignalsOnlyOnChange verifies no signal for a product missing from the basket.
func TestChangeQuantity_SignalsOnlyOnChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.add(t, 1)

	_, err := f.basket.ChangeQuantity(ctx, 3, 1)
	require.NoError(t, err)
	assert.Empty(t, f.notifier.changes)

	view, err := f.basket.ChangeQuantity(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Len(t, f.notifier.changes, 1)

	view, err = f.basket.ChangeQuantity(ctx, 1, -2)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Len(t, f.notifier.changes, 2)
}

func TestClearBasket(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.add(t, 1, 2)

	view, err := f.basket.ClearBasket(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	view, err = f.basket.GetBasket(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}
