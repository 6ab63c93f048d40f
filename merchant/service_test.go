package merchant

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/alovak/cardflow-accept/internal/authnet"
	"github.com/alovak/cardflow-accept/merchant/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type stubGateway struct {
	result models.PaymentResult
	err    error
	orders []models.Order
}

func (g *stubGateway) CreatePaymentTransaction(_ context.Context, order models.Order) (models.PaymentResult, error) {
	g.orders = append(g.orders, order)
	return g.result, g.err
}

var testPayload = models.PaymentPayload{
	PaymentMethodNonceValue:      "eyJjb2RlIjoiNTBfMl8wNjAwMDUzNTg0",
	PaymentMethodNonceDescriptor: "COMMON.ACCEPT.INAPP.PAYMENT",
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDemoOrder(t *testing.T) {
	order := DemoOrder(testPayload.Token())

	require.Equal(t, "100", order.Total.String())
	require.Len(t, order.Items, 2)
	require.Equal(t, "Product A", order.Items[0].ProductName)
	require.Equal(t, "Product B", order.Items[1].ProductName)
	require.True(t, order.Items[0].UnitPrice.Add(order.Items[1].UnitPrice).Equal(order.Total))
	require.Equal(t, "Suite A", order.BillingAddress.StreetTwo)
	require.Equal(t, testPayload.PaymentMethodNonceValue, order.PaymentToken.Value)
	require.Equal(t, testPayload.PaymentMethodNonceDescriptor, order.PaymentToken.Descriptor)
}

func TestSubmitPayment_JournalsResult(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	gw := &stubGateway{result: models.Success{TransactionID: "T1", ResponseCode: "1", MessageCode: "1", AuthCode: "A1"}}
	repo := NewRepository()

	var logs bytes.Buffer
	svc := NewService(gw, repo, slog.New(slog.NewJSONHandler(&logs, nil)))
	svc.now = func() time.Time { return at }

	result, err := svc.SubmitPayment(ctx, "req-1", testPayload)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	require.Len(t, gw.orders, 1)

	gw.result = models.Failure{ErrorCode: "2", ErrorMessage: "This transaction has been declined."}
	result, err = svc.SubmitPayment(ctx, "req-2", testPayload)
	require.NoError(t, err)
	require.False(t, result.IsSuccess())

	entries, err := svc.Payments(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	declined, approved := entries[0], entries[1]
	require.Equal(t, "req-1", approved.RequestID)
	require.True(t, approved.Success)
	require.Equal(t, "T1", approved.TransactionID)
	require.Equal(t, "A1", approved.AuthCode)
	require.Equal(t, "USD", approved.Currency)
	require.Equal(t, "100", approved.Amount.String())
	require.Equal(t, at, approved.CreatedAt)

	require.Equal(t, "req-2", declined.RequestID)
	require.False(t, declined.Success)
	require.Equal(t, "2", declined.ErrorCode)

	require.NotContains(t, logs.String(), testPayload.PaymentMethodNonceValue)
	require.Contains(t, logs.String(), "NTg0")
}

func TestSubmitPayment_GatewayError(t *testing.T) {
	gw := &stubGateway{err: fmt.Errorf("%w: connection refused", authnet.ErrGatewayUnavailable)}
	repo := NewRepository()
	svc := NewService(gw, repo, discardLogger())

	result, err := svc.SubmitPayment(context.Background(), "req-1", testPayload)
	require.Nil(t, result)
	require.True(t, errors.Is(err, authnet.ErrGatewayUnavailable))

	entries, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSubmitPayment_JournalFailureKeepsResult(t *testing.T) {
	// a closed pool fails every write without needing a server
	db, err := sql.Open("postgres", "postgres://localhost/none?sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	gw := &stubGateway{result: models.Success{TransactionID: "T1"}}
	var logs bytes.Buffer
	svc := NewService(gw, NewPGRepository(db), slog.New(slog.NewJSONHandler(&logs, nil)))

	result, err := svc.SubmitPayment(context.Background(), "req-1", testPayload)
	require.NoError(t, err)
	require.Equal(t, models.Success{TransactionID: "T1"}, result)
	require.Contains(t, logs.String(), "journaling payment")
}
