package receipt

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kassa/internal/logger"
)

func newTestRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(NewService(repo, logger.NopLogger()), logger.NopLogger())
	handler.RegisterRoutes(router)
	return router
}

func TestListReceiptsEmpty(t *testing.T) {
	router := newTestRouter(&stubRepository{byID: map[string]*Receipt{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/receipts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestListReceiptsBadDate(t *testing.T) {
	router := newTestRouter(&stubRepository{byID: map[string]*Receipt{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/receipts?from=notadate", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetReceipt(t *testing.T) {
	repo := &stubRepository{byID: map[string]*Receipt{
		"r-1": {
			ID:              "r-1",
			MessageID:       "msg-1",
			Merchant:        "Amazon",
			Amount:          49.99,
			Currency:        "EUR",
			Category:        "Online Shopping",
			TransactionDate: time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC),
		},
	}}
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/receipts/r-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got Receipt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Amazon", got.Merchant)
	assert.InDelta(t, 49.99, got.Amount, 0.001)
}

func TestGetReceiptNotFound(t *testing.T) {
	router := newTestRouter(&stubRepository{byID: map[string]*Receipt{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/receipts/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteReceipt(t *testing.T) {
	repo := &stubRepository{byID: map[string]*Receipt{"r-2": {ID: "r-2"}}}
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/receipts/r-2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/receipts/r-2", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttachmentContentNotSerialized(t *testing.T) {
	repo := &stubRepository{byID: map[string]*Receipt{
		"r-3": {
			ID: "r-3",
			Attachments: []StoredAttachment{
				{FileName: "receipt.pdf", ContentType: "application/pdf", Size: 4, Content: []byte("%PDF")},
			},
		},
	}}
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/receipts/r-3", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "%PDF")
	assert.Contains(t, w.Body.String(), "receipt.pdf")
}
