package entities

import (
	"fmt"
	"math"
	"time"

	"storefront/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BasketEntry struct {
	ProductId int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func NewBasketEntry(productId int, quantity int) (BasketEntry, error) {
	if productId <= 0 || quantity < 1 {
		return BasketEntry{}, models.ErrInvalidEntry
	}
	return BasketEntry{ProductId: productId, Quantity: quantity}, nil
}

// Basket keeps entries in insertion order with at most one entry per product.
// The zero value is an empty basket.
type Basket struct {
	entries []BasketEntry
}

// BasketFromRecords builds a basket from persisted records. Records with a
// non-positive id or quantity are dropped and repeated ids are merged into
// the first occurrence. coerced counts the records that were not taken as is.
// A merge whose quantity does not fit in an int fails with ErrInvalidEntry.
func BasketFromRecords(records []models.BasketEntry_db) (b Basket, coerced int, err error) {
	index := make(map[int]int, len(records))
	for _, r := range records {
		entry, e := NewBasketEntry(r.ProductId, r.Quantity)
		if e != nil {
			coerced++
			continue
		}
		if i, ok := index[entry.ProductId]; ok {
			q, ok := addQuantity(b.entries[i].Quantity, entry.Quantity)
			if !ok {
				return Basket{}, 0, fmt.Errorf("product %d quantity overflows: %w", entry.ProductId, models.ErrInvalidEntry)
			}
			b.entries[i].Quantity = q
			coerced++
			continue
		}
		index[entry.ProductId] = len(b.entries)
		b.entries = append(b.entries, entry)
	}
	b.mustBeValid()
	return
}

func (b Basket) Records() []models.BasketEntry_db {
	records := make([]models.BasketEntry_db, 0, len(b.entries))
	for _, e := range b.entries {
		records = append(records, models.BasketEntry_db{ProductId: e.ProductId, Quantity: e.Quantity})
	}
	return records
}

func (b Basket) Entries() []BasketEntry {
	out := make([]BasketEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b Basket) Len() int {
	return len(b.entries)
}

func (b Basket) IsEmpty() bool {
	return len(b.entries) == 0
}

func (b Basket) Find(productId int) (BasketEntry, bool) {
	if i := b.indexOf(productId); i >= 0 {
		return b.entries[i], true
	}
	return BasketEntry{}, false
}

// TotalQuantity is the number of units across all entries.
func (b Basket) TotalQuantity() int {
	n := 0
	for _, e := range b.entries {
		n += e.Quantity
	}
	return n
}

// Add increments the entry for productId or appends a new one with quantity 1.
func (b *Basket) Add(productId int) error {
	if i := b.indexOf(productId); i >= 0 {
		q, ok := addQuantity(b.entries[i].Quantity, 1)
		if !ok {
			return fmt.Errorf("product %d quantity overflows: %w", productId, models.ErrInvalidEntry)
		}
		b.entries = b.Entries()
		b.entries[i].Quantity = q
		b.mustBeValid()
		return nil
	}
	entry, err := NewBasketEntry(productId, 1)
	if err != nil {
		return err
	}
	b.entries = append(b.Entries(), entry)
	b.mustBeValid()
	return nil
}

// ChangeQuantity adds delta to the entry for productId. An entry whose
// quantity drops to zero or below is removed. It reports whether an entry
// for productId existed; a delta that overflows the quantity is
// ErrInvalidEntry and leaves the basket unchanged.
func (b *Basket) ChangeQuantity(productId int, delta int) (bool, error) {
	i := b.indexOf(productId)
	if i < 0 {
		return false, nil
	}
	q, ok := addQuantity(b.entries[i].Quantity, delta)
	if !ok {
		return false, fmt.Errorf("product %d quantity overflows: %w", productId, models.ErrInvalidEntry)
	}
	// copies of a Basket share the backing array
	b.entries = b.Entries()
	if q <= 0 {
		b.entries = append(b.entries[:i], b.entries[i+1:]...)
	} else {
		b.entries[i].Quantity = q
	}
	b.mustBeValid()
	return true, nil
}

// addQuantity is q + delta for a positive q, false when the sum overflows.
func addQuantity(q, delta int) (int, bool) {
	if delta > 0 && q > math.MaxInt-delta {
		return 0, false
	}
	return q + delta, true
}

func (b Basket) indexOf(productId int) int {
	for i, e := range b.entries {
		if e.ProductId == productId {
			return i
		}
	}
	return -1
}

// mustBeValid panics when the basket breaks its invariants; reaching it is a defect.
func (b Basket) mustBeValid() {
	seen := make(map[int]struct{}, len(b.entries))
	for _, e := range b.entries {
		if e.Quantity < 1 {
			panic(fmt.Sprintf("basket invariant: product %d has quantity %d", e.ProductId, e.Quantity))
		}
		if _, dup := seen[e.ProductId]; dup {
			panic(fmt.Sprintf("basket invariant: product %d appears twice", e.ProductId))
		}
		seen[e.ProductId] = struct{}{}
	}
}

type LoadStatus int

const (
	LoadOK LoadStatus = iota
	LoadRecovered
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadRecovered:
		return "recovered"
	default:
		return "unknown"
	}
}

// LoadResult tells apart a basket read as stored from an empty basket
// substituted for unreadable content.
type LoadResult struct {
	Basket Basket
	Status LoadStatus
	Cause  error
}

func (r LoadResult) Recovered() bool {
	return r.Status == LoadRecovered
}

type OrderLine struct {
	Product   models.Product  `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type PricingBreakdown struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	Total       decimal.Decimal `json:"total"`
}

func (p PricingBreakdown) FreeShipping() bool {
	return p.ShippingFee.IsZero()
}

type BasketView struct {
	Lines   []OrderLine      `json:"lines"`
	Pricing PricingBreakdown `json:"pricing"`
}

// Rejection names the first checkout rule that failed.
type Rejection struct {
	Field   string `json:"field,omitempty"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Rejection *Rejection
}

func (v ValidationResult) Valid() bool {
	return v.Rejection == nil
}

type CheckoutState int

const (
	Editing CheckoutState = iota
	Validating
	Rejected
	Accepted
	OrderPlaced
)

func (s CheckoutState) String() string {
	switch s {
	case Editing:
		return "editing"
	case Validating:
		return "validating"
	case Rejected:
		return "rejected"
	case Accepted:
		return "accepted"
	case OrderPlaced:
		return "order_placed"
	default:
		return "unknown"
	}
}

type OrderConfirmation struct {
	Reference       uuid.UUID            `json:"reference"`
	PlacedAt        time.Time            `json:"placedAt"`
	Lines           []OrderLine          `json:"lines"`
	Pricing         PricingBreakdown     `json:"pricing"`
	PaymentMethod   models.PaymentMethod `json:"paymentMethod"`
	CardLast4       string               `json:"cardLast4,omitempty"`
	CardFingerprint string               `json:"cardFingerprint,omitempty"`
	Message         string               `json:"message"`
}

type CheckoutOutcome struct {
	State        CheckoutState      `json:"-"`
	Rejection    *Rejection         `json:"rejection,omitempty"`
	Confirmation *OrderConfirmation `json:"confirmation,omitempty"`
}
