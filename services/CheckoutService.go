package services

import (
	"context"
	"encoding/hex"
	"time"

	"storefront/entities"
	"storefront/models"
	"storefront/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

const OrderPlacedMessage = "Order placed successfully! This is a demo - no real payment has been processed."

type CheckoutService struct {
	br             repository.BasketRepository
	ps             PricingService
	n              Notifier
	logger         *zap.Logger
	fingerprintKey []byte
	now            func() time.Time
	newReference   func() uuid.UUID
}

// NewCheckoutService keys card fingerprints with fingerprintKey, which may be
// empty and must not exceed blake2b.Size bytes.
func NewCheckoutService(basketRepo repository.BasketRepository, pricing PricingService, notifier Notifier, fingerprintKey []byte, logger *zap.Logger) CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return CheckoutService{
		br:             basketRepo,
		ps:             pricing,
		n:              notifier,
		logger:         logger,
		fingerprintKey: fingerprintKey,
		now:            func() time.Time { return time.Now().UTC() },
		newReference:   uuid.New,
	}
}

// PlaceOrder validates the form against the stored basket. The basket is
// cleared only when every rule passes, under the same lock as the read so a
// concurrent add is never cleared without being ordered. Payment methods
// other than card and paypal are ErrBadRequest.
func (cs *CheckoutService) PlaceOrder(ctx context.Context, form models.CheckoutForm, method models.PaymentMethod) (outcome entities.CheckoutOutcome, err error) {
	if !method.Valid() {
		cs.logger.Debug("unknown payment method", zap.String("payment_method", string(method)))
		err = models.ErrBadRequest
		return
	}
	var settled entities.CheckoutOutcome
	err = cs.br.ClearIf(ctx, func(basket entities.Basket) (bool, error) {
		var e error
		settled, e = cs.settle(form, method, basket)
		return e == nil && settled.State == entities.OrderPlaced, e
	})
	if err != nil {
		return
	}
	outcome = settled
	switch outcome.State {
	case entities.Rejected:
		cs.n.ValidationRejected(*outcome.Rejection)
	case entities.OrderPlaced:
		cs.n.OrderPlaced(*outcome.Confirmation)
	}
	return
}

func (cs *CheckoutService) settle(form models.CheckoutForm, method models.PaymentMethod, basket entities.Basket) (outcome entities.CheckoutOutcome, err error) {
	result := Validate(form, !basket.IsEmpty(), method)
	if !result.Valid() {
		outcome.State = entities.Rejected
		outcome.Rejection = result.Rejection
		return
	}

	view := cs.ps.View(basket)
	confirmation := entities.OrderConfirmation{
		Reference:     cs.newReference(),
		PlacedAt:      cs.now(),
		Lines:         view.Lines,
		Pricing:       view.Pricing,
		PaymentMethod: method,
		Message:       OrderPlacedMessage,
	}
	if method == models.PaymentCard {
		digits := CardDigits(form.Card.Number)
		confirmation.CardLast4 = digits[len(digits)-4:]
		confirmation.CardFingerprint, err = cs.fingerprint(digits)
		if err != nil {
			return
		}
	}
	outcome.State = entities.OrderPlaced
	outcome.Confirmation = &confirmation
	return
}

func (cs *CheckoutService) fingerprint(digits string) (string, error) {
	h, err := blake2b.New256(cs.fingerprintKey)
	if err != nil {
		cs.logger.Error("card fingerprint", zap.Error(err))
		return "", models.ErrServerError
	}
	h.Write([]byte(digits))
	return hex.EncodeToString(h.Sum(nil)), nil
}
