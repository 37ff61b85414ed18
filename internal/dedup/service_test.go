package dedup

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kassa/internal/config"
	"kassa/internal/logger"
)

type stubRepository struct {
	claimed bool
	err     error
	lastID  string
	lastTTL time.Duration
}

func (s *stubRepository) Claim(_ context.Context, messageID string, ttl time.Duration) (bool, error) {
	s.lastID = messageID
	s.lastTTL = ttl
	return s.claimed, s.err
}

func newTestService(repo Repository, onRedisError string) Service {
	return NewService(repo, config.DeduplicationConfig{
		TTLSeconds:   3600,
		OnRedisError: onRedisError,
	}, logger.NopLogger())
}

func TestIsNewUnique(t *testing.T) {
	repo := &stubRepository{claimed: true}
	svc := newTestService(repo, "allow")

	unique, err := svc.IsNew(context.Background(), "msg-001")
	require.NoError(t, err)
	assert.True(t, unique)
	assert.Equal(t, "msg-001", repo.lastID)
	assert.Equal(t, time.Hour, repo.lastTTL)
}

func TestIsNewDuplicate(t *testing.T) {
	svc := newTestService(&stubRepository{claimed: false}, "allow")

	unique, err := svc.IsNew(context.Background(), "msg-001")
	require.NoError(t, err)
	assert.False(t, unique)
}

func TestIsNewEmptyMessageID(t *testing.T) {
	svc := newTestService(&stubRepository{claimed: true}, "allow")

	_, err := svc.IsNew(context.Background(), "")
	assert.Error(t, err)
}

func TestIsNewStoreErrorAllow(t *testing.T) {
	repo := &stubRepository{err: fmt.Errorf("connection refused")}
	svc := newTestService(repo, "allow")

	unique, err := svc.IsNew(context.Background(), "msg-002")
	require.NoError(t, err)
	assert.True(t, unique)
}

func TestIsNewStoreErrorDeny(t *testing.T) {
	repo := &stubRepository{err: fmt.Errorf("connection refused")}
	svc := newTestService(repo, "deny")

	unique, err := svc.IsNew(context.Background(), "msg-003")
	assert.Error(t, err)
	assert.False(t, unique)
}

func TestIsNewWithoutRepository(t *testing.T) {
	svc := newTestService(nil, "allow")

	unique, err := svc.IsNew(context.Background(), "msg-004")
	require.NoError(t, err)
	assert.True(t, unique)
}

func TestIsNewCancelledContext(t *testing.T) {
	svc := newTestService(&stubRepository{claimed: true}, "allow")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.IsNew(ctx, "msg-005")
	assert.Error(t, err)
}
