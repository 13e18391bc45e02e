package services

import (
	"regexp"
	"strings"
	"unicode"

	"storefront/entities"
	"storefront/models"
)

// Checkout rules, reported in Rejection.Rule.
const (
	RuleBasketEmpty      = "basket empty"
	RuleRequired         = "required"
	RuleInvalidEmail     = "invalid email"
	RuleInvalidCard      = "invalid card number"
	RuleCardNameRequired = "card name required"
	RuleInvalidExpiry    = "invalid expiry"
	RuleInvalidCVV       = "invalid cvv"
)

const (
	MsgBasketEmpty   = "Your basket is empty."
	MsgInvalidEmail  = "Please enter a valid email address."
	MsgInvalidCard   = "Please enter a valid 16-digit card number."
	MsgCardName      = "Please enter the name on the card."
	MsgInvalidExpiry = "Please enter expiry date in MM/YY format."
	MsgInvalidCVV    = "Please enter a valid CVV."
)

const (
	minCardDigits = 16
	minCVVDigits  = 3
)

var expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

type requiredField struct {
	field string
	label string
	value func(f models.CheckoutForm) string
}

var shippingFields = []requiredField{
	{"email", "Email Address", func(f models.CheckoutForm) string { return f.Email }},
	{"firstName", "First Name", func(f models.CheckoutForm) string { return f.Shipping.FirstName }},
	{"lastName", "Last Name", func(f models.CheckoutForm) string { return f.Shipping.LastName }},
	{"address1", "Address", func(f models.CheckoutForm) string { return f.Shipping.Address1 }},
	{"city", "City", func(f models.CheckoutForm) string { return f.Shipping.City }},
	{"postcode", "Postcode", func(f models.CheckoutForm) string { return f.Shipping.Postcode }},
	{"country", "Country", func(f models.CheckoutForm) string { return f.Shipping.Country }},
}

var billingFields = []requiredField{
	{"billingFirstName", "Billing First Name", func(f models.CheckoutForm) string { return f.Billing.FirstName }},
	{"billingLastName", "Billing Last Name", func(f models.CheckoutForm) string { return f.Billing.LastName }},
	{"billingAddress1", "Billing Address", func(f models.CheckoutForm) string { return f.Billing.Address1 }},
	{"billingCity", "Billing City", func(f models.CheckoutForm) string { return f.Billing.City }},
	{"billingPostcode", "Billing Postcode", func(f models.CheckoutForm) string { return f.Billing.Postcode }},
	{"billingCountry", "Billing Country", func(f models.CheckoutForm) string { return f.Billing.Country }},
}

// Validate reports the first failing checkout rule, or none.
func Validate(form models.CheckoutForm, basketNonEmpty bool, method models.PaymentMethod) entities.ValidationResult {
	if !basketNonEmpty {
		return reject("", RuleBasketEmpty, MsgBasketEmpty)
	}
	if r := checkRequired(form, shippingFields); r != nil {
		return entities.ValidationResult{Rejection: r}
	}
	if !strings.Contains(form.Email, "@") {
		return reject("email", RuleInvalidEmail, MsgInvalidEmail)
	}
	if form.BillingDifferent {
		if r := checkRequired(form, billingFields); r != nil {
			return entities.ValidationResult{Rejection: r}
		}
	}
	if method == models.PaymentCard {
		return validateCard(form.Card)
	}
	return entities.ValidationResult{}
}

func validateCard(card models.CardDetails) entities.ValidationResult {
	number := CardDigits(card.Number)
	if len(number) < minCardDigits || !allDigits(number) {
		return reject("cardNumber", RuleInvalidCard, MsgInvalidCard)
	}
	if strings.TrimSpace(card.Name) == "" {
		return reject("cardName", RuleCardNameRequired, MsgCardName)
	}
	if !expiryPattern.MatchString(strings.TrimSpace(card.Expiry)) {
		return reject("expiry", RuleInvalidExpiry, MsgInvalidExpiry)
	}
	cvv := strings.TrimSpace(card.CVV)
	if len(cvv) < minCVVDigits || !allDigits(cvv) {
		return reject("cvv", RuleInvalidCVV, MsgInvalidCVV)
	}
	return entities.ValidationResult{}
}

func checkRequired(form models.CheckoutForm, fields []requiredField) *entities.Rejection {
	for _, f := range fields {
		if strings.TrimSpace(f.value(form)) == "" {
			return &entities.Rejection{
				Field:   f.field,
				Rule:    RuleRequired,
				Message: "Please fill in the " + f.label + " field.",
			}
		}
	}
	return nil
}

// CardDigits strips all whitespace from a card number.
func CardDigits(number string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, number)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func reject(field, rule, message string) entities.ValidationResult {
	return entities.ValidationResult{Rejection: &entities.Rejection{Field: field, Rule: rule, Message: message}}
}
