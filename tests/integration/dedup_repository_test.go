package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kassa/internal/dedup"
)

func TestDedupRepository_Claim(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	ctx := context.Background()
	repo := dedup.NewRepository(infra.RedisClient)

	claimed, err := repo.Claim(ctx, "msg-claim-1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.Claim(ctx, "msg-claim-1", 5*time.Second)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestDedupRepository_Claim_TTLExpiry(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	ctx := context.Background()
	repo := dedup.NewRepository(infra.RedisClient)

	claimed, err := repo.Claim(ctx, "msg-claim-2", 1*time.Second)
	require.NoError(t, err)
	assert.True(t, claimed)

	time.Sleep(2 * time.Second)

	claimed, err = repo.Claim(ctx, "msg-claim-2", 1*time.Second)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestDedupRepository_Claim_DifferentMessages(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	ctx := context.Background()
	repo := dedup.NewRepository(infra.RedisClient)

	for _, id := range []string{"msg-a", "msg-b", "msg-c"} {
		claimed, err := repo.Claim(ctx, id, 5*time.Second)
		require.NoError(t, err)
		assert.True(t, claimed, "message %s should claim its slot", id)
	}
}

func TestDedupRepository_Claim_ContextCancellation(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := dedup.NewRepository(infra.RedisClient)
	_, err := repo.Claim(ctx, "msg-cancelled", 5*time.Second)
	assert.Error(t, err)
}
