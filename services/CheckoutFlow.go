package services

import (
	"context"

	"storefront/entities"
	"storefront/models"
)

// CheckoutFlow tracks one shopper's checkout attempts:
// Editing -> Validating -> Rejected -> Editing, or
// Editing -> Validating -> Accepted -> OrderPlaced, which is terminal.
type CheckoutFlow struct {
	cs      *CheckoutService
	state   entities.CheckoutState
	history []entities.CheckoutState
	last    *entities.Rejection
}

func NewCheckoutFlow(cs *CheckoutService) *CheckoutFlow {
	return &CheckoutFlow{
		cs:      cs,
		state:   entities.Editing,
		history: []entities.CheckoutState{entities.Editing},
	}
}

func (f *CheckoutFlow) State() entities.CheckoutState {
	return f.state
}

// History lists every state entered so far, starting with Editing.
func (f *CheckoutFlow) History() []entities.CheckoutState {
	out := make([]entities.CheckoutState, len(f.history))
	copy(out, f.history)
	return out
}

// LastRejection is the reason of the most recent rejected submission.
func (f *CheckoutFlow) LastRejection() *entities.Rejection {
	return f.last
}

func (f *CheckoutFlow) Submit(ctx context.Context, form models.CheckoutForm, method models.PaymentMethod) (outcome entities.CheckoutOutcome, err error) {
	if f.state == entities.OrderPlaced {
		err = models.ErrOrderPlaced
		return
	}
	f.enter(entities.Validating)
	outcome, err = f.cs.PlaceOrder(ctx, form, method)
	if err != nil {
		f.enter(entities.Editing)
		return
	}
	if outcome.State == entities.Rejected {
		f.last = outcome.Rejection
		f.enter(entities.Rejected)
		f.enter(entities.Editing)
		return
	}
	f.last = nil
	f.enter(entities.Accepted)
	f.enter(entities.OrderPlaced)
	return
}

func (f *CheckoutFlow) enter(s entities.CheckoutState) {
	f.state = s
	f.history = append(f.history, s)
}
