package models

import "github.com/shopspring/decimal"

// Order is a single purchase submitted to the processor. It is built per
// request and never modified after construction.
type Order struct {
	Total          decimal.Decimal
	Items          []OrderItem
	BillingAddress Address
	PaymentToken   PaymentToken
}

type OrderItem struct {
	ID          int
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

type Address struct {
	FirstName   string
	LastName    string
	StreetOne   string
	StreetTwo   string
	City        string
	StateCode   string
	ZipCode     string
	CountryCode string
}

// PaymentToken is the opaque card reference produced by Accept.js in the
// browser. It replaces the card number; the server never sees card data.
type PaymentToken struct {
	Value      string
	Descriptor string
}

// PaymentPayload is the body of POST /Payments.
type PaymentPayload struct {
	PaymentMethodNonceValue      string `json:"paymentMethodNonceValue"`
	PaymentMethodNonceDescriptor string `json:"paymentMethodNonceDescriptor"`
}

func (p PaymentPayload) Token() PaymentToken {
	return PaymentToken{
		Value:      p.PaymentMethodNonceValue,
		Descriptor: p.PaymentMethodNonceDescriptor,
	}
}
