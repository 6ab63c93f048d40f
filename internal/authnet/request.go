package authnet

import (
	"strconv"

	"github.com/alovak/cardflow-accept/merchant/models"
	"github.com/shopspring/decimal"
)

const TransactionTypeAuthCapture = "authCaptureTransaction"

// The processor validates JSON against its XML schema, so field order in
// these structs follows the schema and must not be rearranged.

type createTransactionEnvelope struct {
	CreateTransactionRequest CreateTransactionRequest `json:"createTransactionRequest"`
}

type CreateTransactionRequest struct {
	MerchantAuthentication MerchantAuthentication `json:"merchantAuthentication"`
	RefID                  string                 `json:"refId,omitempty"`
	TransactionRequest     TransactionRequest     `json:"transactionRequest"`
}

type MerchantAuthentication struct {
	Name           string `json:"name"`
	TransactionKey string `json:"transactionKey"`
}

type TransactionRequest struct {
	TransactionType string          `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	Payment         Payment         `json:"payment"`
	LineItems       *LineItems      `json:"lineItems,omitempty"`
	BillTo          BillTo          `json:"billTo"`
}

type Payment struct {
	OpaqueData OpaqueData `json:"opaqueData"`
}

type OpaqueData struct {
	DataDescriptor string `json:"dataDescriptor"`
	DataValue      string `json:"dataValue"`
}

type LineItems struct {
	LineItem []LineItem `json:"lineItem"`
}

type LineItem struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type BillTo struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country,omitempty"`
}

// BuildRequest maps an order onto a single-step authorize-and-capture
// request. The order is not validated.
func BuildRequest(order models.Order, auth MerchantAuthentication, refID string) CreateTransactionRequest {
	return CreateTransactionRequest{
		MerchantAuthentication: auth,
		RefID:                  refID,
		TransactionRequest: TransactionRequest{
			TransactionType: TransactionTypeAuthCapture,
			Amount:          order.Total,
			Payment:         buildPayment(order.PaymentToken),
			LineItems:       buildLineItems(order.Items),
			BillTo:          buildBillTo(order.BillingAddress),
		},
	}
}

func buildPayment(token models.PaymentToken) Payment {
	return Payment{
		OpaqueData: OpaqueData{
			DataDescriptor: token.Descriptor,
			DataValue:      token.Value,
		},
	}
}

// billTo has a single street line; StreetTwo has no place in it.
func buildBillTo(a models.Address) BillTo {
	return BillTo{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Address:   a.StreetOne,
		City:      a.City,
		State:     a.StateCode,
		Zip:       a.ZipCode,
		Country:   a.CountryCode,
	}
}

func buildLineItems(items []models.OrderItem) *LineItems {
	if len(items) == 0 {
		return nil
	}
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, LineItem{
			ItemID:    strconv.Itoa(item.ID),
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return &LineItems{LineItem: out}
}
