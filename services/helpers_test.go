package services

import (
	"context"
	"testing"

	"storefront/entities"
	"storefront/models"
	"storefront/repository"

	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	confirmations []string
	changes       []entities.BasketView
	rejections    []entities.Rejection
	orders        []entities.OrderConfirmation
}

func (n *recordingNotifier) Confirm(message string) {
	n.confirmations = append(n.confirmations, message)
}

func (n *recordingNotifier) BasketChanged(view entities.BasketView) {
	n.changes = append(n.changes, view)
}

func (n *recordingNotifier) ValidationRejected(rejection entities.Rejection) {
	n.rejections = append(n.rejections, rejection)
}

func (n *recordingNotifier) OrderPlaced(confirmation entities.OrderConfirmation) {
	n.orders = append(n.orders, confirmation)
}

type fixture struct {
	storage  *repository.MemoryStorage
	repo     *repository.BasketRepo
	pricing  PricingService
	basket   BasketService
	checkout CheckoutService
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	storage := repository.NewMemoryStorage()
	repo, err := repository.NewBasketRepository(storage, "", nil)
	require.NoError(t, err)
	n := &recordingNotifier{}
	pricing := NewPricingService(repo, repository.NewStaticCatalog(), nil)
	return &fixture{
		storage:  storage,
		repo:     repo,
		pricing:  pricing,
		basket:   NewBasketService(repo, pricing, n, nil),
		checkout: NewCheckoutService(repo, pricing, n, []byte("test-key"), nil),
		notifier: n,
	}
}

func (f *fixture) add(t *testing.T, ids ...int) {
	t.Helper()
	for _, id := range ids {
		_, err := f.repo.Add(context.Background(), id)
		require.NoError(t, err)
	}
}

func validForm() models.CheckoutForm {
	return models.CheckoutForm{
		Email: "ada@example.com",
		Shipping: models.Address{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Address1:  "12 St James's Square",
			City:      "London",
			Postcode:  "SW1Y 4JH",
			Country:   "United Kingdom",
		},
		Card: models.CardDetails{
			Number: "4111 1111 1111 1111",
			Name:   "A Lovelace",
			Expiry: "12/29",
			CVV:    "123",
		},
	}
}
