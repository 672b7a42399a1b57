package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TristoneFM/material-request-mes/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ── fakes ────────────────────────────────────────────────────────────────────

type fakeRequestRepo struct {
	requests []domain.MaterialRequest
	err      error
}

func (f *fakeRequestRepo) ActiveRequests(ctx context.Context) ([]domain.MaterialRequest, error) {
	return f.requests, f.err
}

type fakePartRepo struct {
	part  string
	found bool
	err   error
	got   string
}

func (f *fakePartRepo) CustomerPart(ctx context.Context, sap string) (string, bool, error) {
	f.got = sap
	return f.part, f.found, f.err
}

type fakeMES struct {
	payload string
	err     error
	got     string
}

func (f *fakeMES) MaterialSearch(ctx context.Context, material string) (json.RawMessage, error) {
	f.got = material
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.payload), nil
}

func newTestRouter(requests *fakeRequestRepo, parts *fakePartRepo, mesClient *fakeMES) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(zap.NewNop(), requests, parts, mesClient)
	return New(zap.NewNop(), h)
}

// ── tests ────────────────────────────────────────────────────────────────────

func TestListRequests(t *testing.T) {
	repo := &fakeRequestRepo{requests: []domain.MaterialRequest{
		{ID: "a1", SAPMaterial: "123", Area: "VUL", Status: "Requested", RequestTime: "2024-05-02T08:15:42.000Z"},
		{ID: "b2", SAPMaterial: "456", Area: "EXT", Status: "InProgress", RequestTime: "2024-05-02T08:10:00.000Z"},
	}}
	router := newTestRouter(repo, &fakePartRepo{}, &fakeMES{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/material-requests", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got []domain.MaterialRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "2024-05-02T08:15:42.000Z", got[0].RequestTime)
}

func TestListRequests_RepoError(t *testing.T) {
	router := newTestRouter(&fakeRequestRepo{err: errors.New("mongo down")}, &fakePartRepo{}, &fakeMES{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/material-requests", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch material requests")
}

func TestCustomerPart_Found(t *testing.T) {
	parts := &fakePartRepo{part: "CP-9912", found: true}
	router := newTestRouter(&fakeRequestRepo{}, parts, &fakeMES{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customer-part?sap=1234567", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"custPart":"CP-9912"}`, w.Body.String())
	assert.Equal(t, "1234567", parts.got)
}

func TestCustomerPart_NotFound(t *testing.T) {
	router := newTestRouter(&fakeRequestRepo{}, &fakePartRepo{}, &fakeMES{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customer-part?sap=1234567", nil))

	require.Equal(t, http.StatusOK, w.Code)
	// null, not an error: absence is a normal outcome.
	assert.JSONEq(t, `{"custPart":null}`, w.Body.String())
}

func TestCustomerPart_MissingParam(t *testing.T) {
	router := newTestRouter(&fakeRequestRepo{}, &fakePartRepo{}, &fakeMES{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customer-part", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomerPart_DatabaseError(t *testing.T) {
	router := newTestRouter(&fakeRequestRepo{}, &fakePartRepo{err: errors.New("mysql down")}, &fakeMES{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customer-part?sap=1", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Database error")
}

func TestUbicaciones_RelaysPayload(t *testing.T) {
	mesClient := &fakeMES{payload: `{"materialDescription":"X","0012":{"VUL":{"R18-H06":{"GESME":149}}}}`}
	router := newTestRouter(&fakeRequestRepo{}, &fakePartRepo{}, mesClient)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ubicaciones", strings.NewReader(`{"sapMaterial":"1234567"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, mesClient.payload, w.Body.String())
	assert.Equal(t, "1234567", mesClient.got)
}

func TestUbicaciones_MissingMaterial(t *testing.T) {
	router := newTestRouter(&fakeRequestRepo{}, &fakePartRepo{}, &fakeMES{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ubicaciones", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUbicaciones_MESError(t *testing.T) {
	router := newTestRouter(&fakeRequestRepo{}, &fakePartRepo{}, &fakeMES{err: errors.New("mes down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ubicaciones", strings.NewReader(`{"sapMaterial":"1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch ubicaciones")
}

func TestRequestIDHeaderSet(t *testing.T) {
	router := newTestRouter(&fakeRequestRepo{}, &fakePartRepo{}, &fakeMES{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
