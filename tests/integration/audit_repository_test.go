package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kassa/internal/audit"
)

func TestAuditRepository_Insert(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	ctx := context.Background()
	repo := audit.NewRepository(infra.PostgresDB)

	entry := createTestWebhookLog("msg-audit-1", audit.StatusProcessed, time.Now().UTC())
	entry.ReceiptID = "receipt-1"
	entry.AttachmentCount = 2
	entry.DurationMs = 42

	require.NoError(t, repo.Insert(ctx, entry))
	assert.NotEmpty(t, entry.ID)

	entries, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "msg-audit-1", entries[0].MessageID)
	assert.Equal(t, audit.StatusProcessed, entries[0].Status)
	assert.Equal(t, "receipt-1", entries[0].ReceiptID)
	assert.Equal(t, 2, entries[0].AttachmentCount)
}

func TestAuditRepository_Insert_WithoutReceiptID(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	ctx := context.Background()
	repo := audit.NewRepository(infra.PostgresDB)

	entry := createTestWebhookLog("msg-audit-2", audit.StatusIgnored, time.Now().UTC())
	require.NoError(t, repo.Insert(ctx, entry))

	entries, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].ReceiptID)
}

func TestAuditRepository_List_Ordering(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	ctx := context.Background()
	repo := audit.NewRepository(infra.PostgresDB)

	for _, id := range []string{"msg-order-1", "msg-order-2", "msg-order-3"} {
		entry := createTestWebhookLog(id, audit.StatusProcessed, time.Now().UTC())
		require.NoError(t, repo.Insert(ctx, entry))
		time.Sleep(timestampDelay)
	}

	entries, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "msg-order-3", entries[0].MessageID)
	assert.Equal(t, "msg-order-1", entries[2].MessageID)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "msg-order-2", page[0].MessageID)
}

func TestAuditRepository_DeleteOlderThan(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	ctx := context.Background()
	repo := audit.NewRepository(infra.PostgresDB)

	old := createTestWebhookLog("msg-old", audit.StatusProcessed, time.Now().UTC().Add(-48*time.Hour))
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, repo.Insert(ctx, old))

	recent := createTestWebhookLog("msg-recent", audit.StatusProcessed, time.Now().UTC())
	require.NoError(t, repo.Insert(ctx, recent))

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	entries, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "msg-recent", entries[0].MessageID)
}
