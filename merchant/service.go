package merchant

import (
	"context"
	"fmt"
	"time"

	"github.com/alovak/cardflow-accept/internal/redact"
	"github.com/alovak/cardflow-accept/merchant/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slog"
)

// PaymentGateway submits an order to the card processor.
type PaymentGateway interface {
	CreatePaymentTransaction(ctx context.Context, order models.Order) (models.PaymentResult, error)
}

type Service struct {
	gateway PaymentGateway
	repo    *Repository
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(gateway PaymentGateway, repo *Repository, logger *slog.Logger) *Service {
	return &Service{
		gateway: gateway,
		repo:    repo,
		logger:  logger,
		now:     time.Now,
	}
}

// DemoOrder is the fixed two-item order the checkout page charges.
func DemoOrder(token models.PaymentToken) models.Order {
	return models.Order{
		Total: decimal.RequireFromString("100.00"),
		Items: []models.OrderItem{
			{ID: 1, ProductName: "Product A", Quantity: 1, UnitPrice: decimal.RequireFromString("50.00")},
			{ID: 2, ProductName: "Product B", Quantity: 1, UnitPrice: decimal.RequireFromString("50.00")},
		},
		BillingAddress: models.Address{
			FirstName:   "John",
			LastName:    "Doe",
			StreetOne:   "123 Main St",
			StreetTwo:   "Suite A",
			City:        "New York",
			StateCode:   "CA",
			ZipCode:     "12345",
			CountryCode: "US",
		},
		PaymentToken: token,
	}
}

// SubmitPayment charges the demo order with the browser's token and journals
// the outcome. Only gateway transport errors are returned.
func (s *Service) SubmitPayment(ctx context.Context, requestID string, payload models.PaymentPayload) (models.PaymentResult, error) {
	order := DemoOrder(payload.Token())

	logger := s.logger.With(
		slog.String("request_id", requestID),
		slog.String("token", redact.Token(payload.PaymentMethodNonceValue)),
		slog.String("amount", order.Total.StringFixed(2)),
	)

	result, err := s.gateway.CreatePaymentTransaction(ctx, order)
	if err != nil {
		logger.Error("payment gateway call failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("submitting payment: %w", err)
	}

	entry := models.NewJournalEntry(uuid.New().String(), requestID, order, result, s.now())
	if err := s.repo.Record(ctx, entry); err != nil {
		logger.Warn("journaling payment", slog.String("payment_id", entry.ID), slog.String("err", err.Error()))
	}

	if entry.Success {
		logger.Info("payment approved", slog.String("transaction_id", entry.TransactionID))
	} else {
		logger.Info("payment declined",
			slog.String("error_code", entry.ErrorCode),
			slog.String("error_message", entry.ErrorMessage),
		)
	}

	return result, nil
}

// Payments returns the newest journal entries.
func (s *Service) Payments(ctx context.Context, limit int) ([]*models.JournalEntry, error) {
	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	return entries, nil
}

// Payment returns one journal entry by id.
func (s *Service) Payment(ctx context.Context, id string) (*models.JournalEntry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting payment %s: %w", id, err)
	}
	return entry, nil
}
