package authnet

import "github.com/alovak/cardflow-accept/merchant/models"

const ResultCodeOk = "Ok"

const (
	msgNoResponse       = "No response from gateway"
	msgUnexpectedFormat = "Unexpected format for error response from gateway"
)

type CreateTransactionResponse struct {
	TransactionResponse *TransactionResponse `json:"transactionResponse,omitempty"`
	RefID               string               `json:"refId,omitempty"`
	Messages            Messages             `json:"messages"`
}

type Messages struct {
	ResultCode string    `json:"resultCode"`
	Message    []Message `json:"message"`
}

type Message struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

type TransactionResponse struct {
	ResponseCode  string               `json:"responseCode"`
	AuthCode      string               `json:"authCode"`
	AVSResultCode string               `json:"avsResultCode,omitempty"`
	CVVResultCode string               `json:"cvvResultCode,omitempty"`
	TransID       string               `json:"transId"`
	RefTransID    string               `json:"refTransID,omitempty"`
	TestRequest   string               `json:"testRequest,omitempty"`
	AccountNumber string               `json:"accountNumber,omitempty"`
	AccountType   string               `json:"accountType,omitempty"`
	Messages      []TransactionMessage `json:"messages,omitempty"`
	Errors        []TransactionError   `json:"errors,omitempty"`
}

type TransactionMessage struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type TransactionError struct {
	ErrorCode string `json:"errorCode"`
	ErrorText string `json:"errorText"`
}

// Classify turns a processor response into exactly one PaymentResult. The
// order of the checks below matters: the processor reports failure either at
// the top level, at the transaction level, or as a success envelope without
// transaction messages.
func Classify(resp *CreateTransactionResponse) models.PaymentResult {
	if resp == nil {
		return models.Failure{ErrorMessage: msgNoResponse}
	}

	tr := resp.TransactionResponse

	if resp.Messages.ResultCode != ResultCodeOk {
		if f, ok := firstTransactionError(tr); ok {
			return f
		}
		if len(resp.Messages.Message) > 0 {
			m := resp.Messages.Message[0]
			return models.Failure{ErrorCode: m.Code, ErrorMessage: m.Text}
		}
		return models.Failure{ErrorMessage: msgUnexpectedFormat}
	}

	if tr == nil || len(tr.Messages) == 0 {
		if f, ok := firstTransactionError(tr); ok {
			return f
		}
		return models.Failure{ErrorMessage: msgUnexpectedFormat}
	}

	return models.Success{
		TransactionID:      tr.TransID,
		ResponseCode:       tr.ResponseCode,
		MessageCode:        tr.Messages[0].Code,
		MessageDescription: tr.Messages[0].Description,
		AuthCode:           tr.AuthCode,
	}
}

func firstTransactionError(tr *TransactionResponse) (models.Failure, bool) {
	if tr == nil || len(tr.Errors) == 0 {
		return models.Failure{}, false
	}
	e := tr.Errors[0]
	return models.Failure{ErrorCode: e.ErrorCode, ErrorMessage: e.ErrorText}, true
}
