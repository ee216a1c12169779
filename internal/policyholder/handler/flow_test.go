package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyhub/internal/policyholder/handler"
	"policyhub/internal/policyholder/idgen"
	"policyhub/internal/policyholder/models"
	"policyhub/internal/policyholder/service"
	holderstore "policyhub/internal/policyholder/store/policyholder"
	eventmemory "policyhub/pkg/platform/eventlog/store/memory"
	"policyhub/pkg/platform/eventlog/publisher"
	"policyhub/pkg/platform/httputil"
	"policyhub/pkg/platform/middleware/request"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	events := eventmemory.New(models.NewEventRegistry())
	svc := service.New(
		holderstore.NewInMemory(),
		idgen.NewSequence(0),
		publisher.New(events, publisher.WithLogger(logger)),
		events,
		service.WithLogger(logger),
	)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	handler.New(svc, logger).Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestPolicyHolderHTTPFlow(t *testing.T) {
	srv := newServer(t)

	var created handler.PolicyHolderResponse
	status := call(t, srv, http.MethodPost, "/policy-holders", map[string]any{
		"national_id": "F131104093",
		"name":        "Chen Mei-Ling",
		"gender":      "FEMALE",
		"birth_date":  "1985-03-20",
		"mobile":      "0912345678",
		"email":       "mei@example.com",
		"zip_code":    "106",
		"city":        "Taipei",
		"district":    "Da'an",
		"street":      "Xinyi Rd. Sec. 3, No. 1",
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "PH0000000001", created.ID)
	assert.Equal(t, int64(0), created.Version)

	var policy handler.PolicyResponse
	start := time.Now().UTC().Format("2006-01-02")
	end := time.Now().UTC().AddDate(1, 0, 0).Format("2006-01-02")
	status = call(t, srv, http.MethodPost, "/policy-holders/PH0000000001/policies", map[string]any{
		"policy_type":        "HEALTH",
		"premium_amount":     "12000.5",
		"sum_insured_amount": "500000",
		"start_date":         start,
		"end_date":           end,
	}, &policy)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "PO0000000001", policy.ID)
	assert.Equal(t, "12000.50", policy.PremiumAmount)
	assert.Equal(t, models.DefaultCurrency, policy.Currency)

	var terminated handler.PolicyHolderResponse
	status = call(t, srv, http.MethodPost, "/policy-holders/PH0000000001/policies/PO0000000001/terminate", nil, &terminated)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, terminated.Policies, 1)
	assert.Equal(t, models.PolicyStatusTerminated, terminated.Policies[0].Status)
	assert.NotNil(t, terminated.Policies[0].TerminatedOn)

	var found handler.PolicyHolderResponse
	status = call(t, srv, http.MethodGet, "/policy-holders?national_id=f131104093", nil, &found)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PH0000000001", found.ID)

	var deleted handler.PolicyHolderResponse
	status = call(t, srv, http.MethodDelete, "/policy-holders/PH0000000001", nil, &deleted)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.StatusInactive, deleted.Status)

	var rejected httputil.ErrorResponse
	status = call(t, srv, http.MethodPut, "/policy-holders/PH0000000001/contact-info", map[string]any{
		"mobile": "0987654321",
	}, &rejected)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "invalid_state", rejected.Error)

	var history handler.HistoryResponse
	status = call(t, srv, http.MethodGet, "/policy-holders/PH0000000001/events", nil, &history)
	require.Equal(t, http.StatusOK, status)
	types := make([]string, len(history.Events))
	for i, e := range history.Events {
		types[i] = e.EventType
	}
	assert.Equal(t, []string{
		models.EventPolicyHolderCreated,
		models.EventPolicyAdded,
		models.EventPolicyTerminated,
		models.EventPolicyHolderDeleted,
	}, types)
}

func TestDuplicateRegistrationIsConflict(t *testing.T) {
	srv := newServer(t)
	body := map[string]any{
		"national_id": "A123456789",
		"name":        "Lin Wei",
		"gender":      "MALE",
		"birth_date":  "1990-01-01",
		"mobile":      "0911222333",
		"zip_code":    "100",
		"city":        "Taipei",
		"district":    "Zhongzheng",
		"street":      "Zhongshan S. Rd. 1",
	}
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/policy-holders", body, nil))

	var resp httputil.ErrorResponse
	status := call(t, srv, http.MethodPost, "/policy-holders", body, &resp)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", resp.Error)
	assert.Contains(t, resp.ErrorDescription, "A123***6789")
}

func TestUnknownHolder(t *testing.T) {
	srv := newServer(t)

	var resp httputil.ErrorResponse
	status := call(t, srv, http.MethodGet, "/policy-holders/PH0000000404", nil, &resp)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", resp.Error)

	var history handler.HistoryResponse
	status = call(t, srv, http.MethodGet, "/policy-holders/PH0000000404/events", nil, &history)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, history.Events)
}
