package entities

import (
	"math"
	"math/rand"
	"testing"

	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBasketEntry(t *testing.T) {
	t.Parallel()

	e, err := NewBasketEntry(3, 2)
	require.NoError(t, err)
	assert.Equal(t, BasketEntry{ProductId: 3, Quantity: 2}, e)

	_, err = NewBasketEntry(3, 0)
	assert.ErrorIs(t, err, models.ErrInvalidEntry)
	_, err = NewBasketEntry(0, 1)
	assert.ErrorIs(t, err, models.ErrInvalidEntry)
}

// TestBasket_AddIncrementsOrAppends verifies insertion order and the single entry per product.
func TestBasket_AddIncrementsOrAppends(t *testing.T) {
	t.Parallel()

	var b Basket
	require.NoError(t, b.Add(2))
	require.NoError(t, b.Add(1))
	require.NoError(t, b.Add(2))

	assert.Equal(t, []BasketEntry{{ProductId: 2, Quantity: 2}, {ProductId: 1, Quantity: 1}}, b.Entries())
	assert.Equal(t, 3, b.TotalQuantity())
}

func TestBasket_AddRejectsNonPositiveId(t *testing.T) {
	t.Parallel()

	var b Basket
	assert.ErrorIs(t, b.Add(0), models.ErrInvalidEntry)
	assert.True(t, b.IsEmpty())
}

// TestBasket_ChangeQuantityRemovesAtZero verifies removal instead of clamping, and a fresh start on re-add.
func TestBasket_ChangeQuantityRemovesAtZero(t *testing.T) {
	t.Parallel()

	var b Basket
	require.NoError(t, b.Add(1))
	require.NoError(t, b.Add(1))

	changed, err := b.ChangeQuantity(1, -5)
	require.NoError(t, err)
	assert.True(t, changed)
	_, ok := b.Find(1)
	assert.False(t, ok)

	require.NoError(t, b.Add(1))
	e, ok := b.Find(1)
	require.True(t, ok)
	assert.Equal(t, 1, e.Quantity)
}

func TestBasket_ChangeQuantityMissingIsNoop(t *testing.T) {
	t.Parallel()

	var b Basket
	require.NoError(t, b.Add(1))
	changed, err := b.ChangeQuantity(9, 1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []BasketEntry{{ProductId: 1, Quantity: 1}}, b.Entries())
}

// TestBasket_CopiesDoNotShareMutations verifies a copied basket is unaffected by changes to the original.
func TestBasket_CopiesDoNotShareMutations(t *testing.T) {
	t.Parallel()

	var b Basket
	require.NoError(t, b.Add(1))
	require.NoError(t, b.Add(2))
	snapshot := b

	_, err := b.ChangeQuantity(1, 4)
	require.NoError(t, err)
	_, err = b.ChangeQuantity(2, -1)
	require.NoError(t, err)

	assert.Equal(t, []BasketEntry{{ProductId: 1, Quantity: 1}, {ProductId: 2, Quantity: 1}}, snapshot.Entries())
	assert.Equal(t, []BasketEntry{{ProductId: 1, Quantity: 5}}, b.Entries())
}

// TestBasket_RandomOperationsKeepInvariants drives random add/change/clear sequences.
func TestBasket_RandomOperationsKeepInvariants(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	var b Basket
	for i := 0; i < 5000; i++ {
		id := rng.Intn(6) + 1
		switch rng.Intn(7) {
		case 0, 1, 2:
			require.NoError(t, b.Add(id))
		case 3, 4, 5:
			_, err := b.ChangeQuantity(id, rng.Intn(7)-4)
			require.NoError(t, err)
		default:
			b = Basket{}
		}

		seen := map[int]bool{}
		for _, e := range b.Entries() {
			require.False(t, seen[e.ProductId], "duplicate product %d", e.ProductId)
			require.GreaterOrEqual(t, e.Quantity, 1)
			seen[e.ProductId] = true
		}
	}
}

// TestBasketFromRecords_Coerces verifies invalid records are dropped and duplicates merged.
func TestBasketFromRecords_Coerces(t *testing.T) {
	t.Parallel()

	b, coerced, err := BasketFromRecords([]models.BasketEntry_db{
		{ProductId: 1, Quantity: 2},
		{ProductId: 2, Quantity: 0},
		{ProductId: 1, Quantity: 3},
		{ProductId: -4, Quantity: 1},
		{ProductId: 3, Quantity: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, coerced)
	assert.Equal(t, []BasketEntry{{ProductId: 1, Quantity: 5}, {ProductId: 3, Quantity: 1}}, b.Entries())
	assert.Equal(t, []models.BasketEntry_db{{ProductId: 1, Quantity: 5}, {ProductId: 3, Quantity: 1}}, b.Records())
}

// TestBasketFromRecords_MergeOverflow verifies merged quantities that do not fit are an error, not a wrapped value.
func TestBasketFromRecords_MergeOverflow(t *testing.T) {
	t.Parallel()

	b, _, err := BasketFromRecords([]models.BasketEntry_db{
		{ProductId: 1, Quantity: math.MaxInt},
		{ProductId: 1, Quantity: 1},
	})
	assert.ErrorIs(t, err, models.ErrInvalidEntry)
	assert.True(t, b.IsEmpty())
}

func TestBasket_AddOverflow(t *testing.T) {
	t.Parallel()

	b, _, err := BasketFromRecords([]models.BasketEntry_db{{ProductId: 1, Quantity: math.MaxInt}})
	require.NoError(t, err)

	assert.ErrorIs(t, b.Add(1), models.ErrInvalidEntry)
	e, ok := b.Find(1)
	require.True(t, ok)
	assert.Equal(t, math.MaxInt, e.Quantity)
}

// TestBasket_ChangeQuantityOverflow verifies a huge positive delta is rejected and never removes the line.
func TestBasket_ChangeQuantityOverflow(t *testing.T) {
	t.Parallel()

	var b Basket
	require.NoError(t, b.Add(1))

	changed, err := b.ChangeQuantity(1, math.MaxInt)
	assert.ErrorIs(t, err, models.ErrInvalidEntry)
	assert.False(t, changed)
	assert.Equal(t, []BasketEntry{{ProductId: 1, Quantity: 1}}, b.Entries())

	changed, err = b.ChangeQuantity(1, math.MinInt)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, b.IsEmpty())
}

func TestBasketRecords_EmptyIsNonNil(t *testing.T) {
	t.Parallel()

	var b Basket
	assert.NotNil(t, b.Records())
	assert.Len(t, b.Records(), 0)
}

func TestPaymentMethodValid(t *testing.T) {
	t.Parallel()

	assert.True(t, models.PaymentCard.Valid())
	assert.True(t, models.PaymentPayPal.Valid())
	assert.False(t, models.PaymentMethod("").Valid())
	assert.False(t, models.PaymentMethod("crypto").Valid())
}

func TestLoadStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ok", LoadOK.String())
	assert.Equal(t, "recovered", LoadRecovered.String())
	assert.True(t, LoadResult{Status: LoadRecovered}.Recovered())
	assert.Equal(t, "order_placed", OrderPlaced.String())
}
