package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrBadRequest = errors.New("bad request")
var ErrServerError = errors.New("server error")
var ErrNotFoundError = errors.New("not found")
var ErrNotAllowed = errors.New("not acceptable")
var ErrInvalidEntry = errors.New("invalid basket entry")
var ErrOrderPlaced = errors.New("order already placed")

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentPayPal PaymentMethod = "paypal"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentPayPal
}

type Product struct {
	Id          int             `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Brand       string          `json:"brand" db:"brand"`
	UnitPrice   decimal.Decimal `json:"price" db:"price"`
	Notes       string          `json:"notes" db:"notes"`
	Description string          `json:"description" db:"description"`
}

// BasketEntry_db is the persisted record shape of one basket entry.
type BasketEntry_db struct {
	ProductId int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
}

type CardDetails struct {
	Number string `json:"cardNumber"`
	Name   string `json:"cardName"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// CheckoutForm is the transient payload of one checkout attempt.
type CheckoutForm struct {
	Email            string      `json:"email"`
	Shipping         Address     `json:"shipping"`
	BillingDifferent bool        `json:"billingDifferent"`
	Billing          Address     `json:"billing"`
	Card             CardDetails `json:"card"`
}
