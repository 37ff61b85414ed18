package receipt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kassa/internal/logger"
	pkgerrors "kassa/pkg/errors"
)

type stubRepository struct {
	created  *Receipt
	byID     map[string]*Receipt
	createErr error
}

func (s *stubRepository) Create(_ context.Context, r *Receipt) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = r
	return nil
}

func (s *stubRepository) GetByID(_ context.Context, id string) (*Receipt, error) {
	if r, ok := s.byID[id]; ok {
		return r, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (s *stubRepository) GetByMessageID(_ context.Context, messageID string) (*Receipt, error) {
	for _, r := range s.byID {
		if r.MessageID == messageID {
			return r, nil
		}
	}
	return nil, pkgerrors.ErrNotFound
}

func (s *stubRepository) List(_ context.Context, _ ListFilter) ([]Receipt, error) {
	var out []Receipt
	for _, r := range s.byID {
		out = append(out, *r)
	}
	return out, nil
}

func (s *stubRepository) Delete(_ context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return pkgerrors.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func TestCreateAppliesDefaults(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, logger.NopLogger())

	r := &Receipt{MessageID: "msg-1", Amount: 12.50}
	err := svc.Create(context.Background(), r)
	require.NoError(t, err)

	require.NotNil(t, repo.created)
	assert.Equal(t, "EUR", repo.created.Currency)
	assert.Equal(t, "Sonstiges", repo.created.Category)
	assert.Equal(t, "Unknown", repo.created.Merchant)
	assert.False(t, repo.created.TransactionDate.IsZero())
}

func TestCreateKeepsExplicitValues(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, logger.NopLogger())

	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	r := &Receipt{
		MessageID:       "msg-2",
		Merchant:        "REWE",
		Amount:          23.45,
		Currency:        "CHF",
		Category:        "Lebensmittel",
		TransactionDate: date,
	}
	require.NoError(t, svc.Create(context.Background(), r))

	assert.Equal(t, "CHF", repo.created.Currency)
	assert.Equal(t, "Lebensmittel", repo.created.Category)
	assert.True(t, date.Equal(repo.created.TransactionDate))
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(&stubRepository{}, logger.NopLogger())

	err := svc.Create(context.Background(), &Receipt{Amount: 1})
	assert.Error(t, err)

	err = svc.Create(context.Background(), &Receipt{MessageID: "msg-3", Amount: -1})
	assert.Error(t, err)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewService(&stubRepository{byID: map[string]*Receipt{}}, logger.NopLogger())

	_, err := svc.GetByID(context.Background(), "missing")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestGetByIDEmpty(t *testing.T) {
	svc := NewService(&stubRepository{}, logger.NopLogger())

	_, err := svc.GetByID(context.Background(), "")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	repo := &stubRepository{byID: map[string]*Receipt{
		"r-1": {ID: "r-1", MessageID: "msg-4"},
	}}
	svc := NewService(repo, logger.NopLogger())

	require.NoError(t, svc.Delete(context.Background(), "r-1"))
	assert.True(t, pkgerrors.IsNotFound(svc.Delete(context.Background(), "r-1")))
}
