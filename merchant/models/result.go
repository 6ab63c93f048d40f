package models

import "encoding/json"

// PaymentResult is the normalized outcome of one payment attempt. It is
// either a Success or a Failure; no other implementations exist.
type PaymentResult interface {
	IsSuccess() bool
	paymentResult()
}

// Success carries the processor's approval details.
type Success struct {
	TransactionID      string
	ResponseCode       string
	MessageCode        string
	MessageDescription string
	AuthCode           string
}

func (Success) IsSuccess() bool { return true }
func (Success) paymentResult()  {}

// Failure carries whatever the processor reported about the failure.
// Either field may be empty.
type Failure struct {
	ErrorCode    string
	ErrorMessage string
}

func (Failure) IsSuccess() bool { return false }
func (Failure) paymentResult()  {}

// PaymentResultView is the JSON shape returned to the browser. Fields that
// do not belong to the result's variant are encoded as null.
type PaymentResultView struct {
	IsSuccess          bool    `json:"isSuccess"`
	TransactionID      *string `json:"transactionId"`
	ResponseCode       *string `json:"responseCode"`
	MessageCode        *string `json:"messageCode"`
	MessageDescription *string `json:"messageDescription"`
	AuthCode           *string `json:"authCode"`
	ErrorCode          *string `json:"errorCode"`
	ErrorMessage       *string `json:"errorMessage"`
}

// View converts a result into its JSON shape. A nil result is treated as an
// empty Failure.
func View(r PaymentResult) PaymentResultView {
	switch v := r.(type) {
	case Success:
		return PaymentResultView{
			IsSuccess:          true,
			TransactionID:      &v.TransactionID,
			ResponseCode:       &v.ResponseCode,
			MessageCode:        &v.MessageCode,
			MessageDescription: &v.MessageDescription,
			AuthCode:           &v.AuthCode,
		}
	case Failure:
		return PaymentResultView{
			ErrorCode:    optional(v.ErrorCode),
			ErrorMessage: optional(v.ErrorMessage),
		}
	default:
		return PaymentResultView{}
	}
}

func (s Success) MarshalJSON() ([]byte, error) { return json.Marshal(View(s)) }
func (f Failure) MarshalJSON() ([]byte, error) { return json.Marshal(View(f)) }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
