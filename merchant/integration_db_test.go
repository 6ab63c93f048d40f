package merchant_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alovak/cardflow-accept/merchant"
	"github.com/alovak/cardflow-accept/merchant/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// TestJournalPostgres round-trips a journal entry through merchant.payments.
// Skips unless DB_DSN is provided.
func TestJournalPostgres(t *testing.T) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		t.Skip("DB_DSN not set; skipping DB integration test")
	}

	ctx := context.Background()
	cfg := merchant.DefaultConfig()
	cfg.JournalBackend = "pg"
	cfg.DBDSN = dsn

	repo, db, err := merchant.OpenRepository(ctx, cfg)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	defer db.Close()

	entry := &models.JournalEntry{
		ID:            uuid.New().String(),
		RequestID:     "req-int",
		Amount:        decimal.RequireFromString("100.00"),
		Currency:      "USD",
		Success:       true,
		TransactionID: "T-int",
		AuthCode:      "A1",
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Record(ctx, entry))
	require.ErrorIs(t, repo.Record(ctx, entry), merchant.ErrConflict)

	got, err := repo.Get(ctx, entry.ID)
	require.NoError(t, err)
	require.True(t, entry.Amount.Equal(got.Amount))
	require.Equal(t, entry.TransactionID, got.TransactionID)
	require.True(t, entry.CreatedAt.Equal(got.CreatedAt))

	list, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = repo.Get(ctx, uuid.New().String())
	require.ErrorIs(t, err, merchant.ErrNotFound)
}
