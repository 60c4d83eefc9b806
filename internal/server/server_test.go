package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"viabilidad/internal/cache"
	"viabilidad/internal/clients"
	"viabilidad/internal/engine"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	store, err := clients.NewStore(filepath.Join(t.TempDir(), "clients.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return NewHandler(zap.NewNop(), store, cache.NewMemory(), nil, 3.5, "test")
}

func referenceInput() engine.Input {
	return engine.Input{
		Holders: 1,
		Holder1: engine.HolderProfile{
			MonthlyIncome:  2000,
			AnnualPayments: 14,
			Age:            30,
		},
	}
}

func postJSON(t *testing.T, handler http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHandleAffordability(t *testing.T) {
	handler := newTestHandler(t)

	rr := postJSON(t, handler, "/api/affordability", affordabilityRequest{Input: referenceInput()})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp affordabilityResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Result == nil {
		t.Fatal("expected a result for a viable household")
	}
	if !resp.Result.MeetsSpecialConditions {
		t.Error("expected special conditions to apply")
	}
	if resp.Result.LoanTermYears != 30 {
		t.Errorf("LoanTermYears = %d, expected 30", resp.Result.LoanTermYears)
	}
	if resp.InterestRate != 3.5 {
		t.Errorf("InterestRate = %v, expected the configured default", resp.InterestRate)
	}
}

func TestHandleAffordabilityInsufficientInput(t *testing.T) {
	handler := newTestHandler(t)

	rr := postJSON(t, handler, "/api/affordability", affordabilityRequest{Input: engine.Input{Holders: 1}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp affordabilityResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Result != nil {
		t.Errorf("expected null result for empty income, got %+v", resp.Result)
	}
}

func TestHandleProperty(t *testing.T) {
	handler := newTestHandler(t)

	rr := postJSON(t, handler, "/api/property", propertyRequest{
		Name:   "Piso centro",
		Price:  200000,
		Region: "Madrid",
		Input:  referenceInput(),
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		FinancingAmount float64 `json:"financingAmount"`
		TransferTax     float64 `json:"transferTax"`
		RequiredFunds   float64 `json:"requiredFunds"`
		RegionResolved  bool    `json:"regionResolved"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if math.Abs(resp.FinancingAmount-190000) > 0.01 {
		t.Errorf("FinancingAmount = %v, expected 190000", resp.FinancingAmount)
	}
	if math.Abs(resp.TransferTax-12000) > 0.01 {
		t.Errorf("TransferTax = %v, expected 12000", resp.TransferTax)
	}
	if !resp.RegionResolved {
		t.Error("expected Madrid to resolve")
	}
}

func TestHandlePropertyWithoutAffordability(t *testing.T) {
	handler := newTestHandler(t)

	rr := postJSON(t, handler, "/api/property", propertyRequest{
		Name:   "Piso",
		Price:  200000,
		Region: "Madrid",
		Input:  engine.Input{Holders: 1},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleTaxCaching(t *testing.T) {
	handler := newTestHandler(t)

	req := taxRequest{Price: 300000, Region: "Madrid", Input: referenceInput()}

	rr := postJSON(t, handler, "/api/tax", req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var first taxResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &first); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if math.Abs(first.Tax-18000) > 0.01 {
		t.Errorf("Tax = %v, expected 18000", first.Tax)
	}
	if first.Cached {
		t.Error("first request must not be cached")
	}

	rr = postJSON(t, handler, "/api/tax", req)
	var second taxResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &second); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !second.Cached {
		t.Error("second identical request should hit the cache")
	}
	if second.Tax != first.Tax {
		t.Errorf("cached Tax = %v, expected %v", second.Tax, first.Tax)
	}
}

func TestHandleRegions(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/regions", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string][]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp["regions"]) != 19 {
		t.Errorf("got %d regions, expected 19", len(resp["regions"]))
	}
}

func TestHandleVersion(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "test" {
		t.Errorf("version = %q, expected test", resp["version"])
	}
}

func TestClientLifecycle(t *testing.T) {
	handler := newTestHandler(t)

	// Create
	rr := postJSON(t, handler, "/api/clients", clients.Client{
		Name:   "María García",
		Phone:  "600111222",
		Inputs: referenceInput(),
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var created clients.Client
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if created.Phone != "34600111222" {
		t.Errorf("Phone = %q, expected the 34 prefix", created.Phone)
	}

	// List
	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var listResp map[string][]clients.Client
	if err := json.Unmarshal(rr.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listResp["clients"]) != 1 {
		t.Fatalf("got %d clients, expected 1", len(listResp["clients"]))
	}

	// Move through the pipeline
	statusBody := bytes.NewReader([]byte(`{"status":"arras"}`))
	req = httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/clients/%d/status", created.ID), statusBody)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// Get reflects the move
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/clients/%d", created.ID), nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	var fetched clients.Client
	if err := json.Unmarshal(rr.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if fetched.Status != clients.StatusArras {
		t.Errorf("Status = %q, expected arras", fetched.Status)
	}

	// Delete
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/clients/%d", created.ID), nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestClientStatusRejectsUnknownColumn(t *testing.T) {
	handler := newTestHandler(t)

	rr := postJSON(t, handler, "/api/clients", clients.Client{Name: "Test", Inputs: referenceInput()})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created clients.Client
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	statusBody := bytes.NewReader([]byte(`{"status":"closed"}`))
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/clients/%d/status", created.ID), statusBody)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestClientReorder(t *testing.T) {
	handler := newTestHandler(t)

	var ids []int64
	for _, name := range []string{"Primero", "Segundo", "Tercero"} {
		rr := postJSON(t, handler, "/api/clients", clients.Client{Name: name, Inputs: referenceInput()})
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
		}
		var created clients.Client
		if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		ids = append(ids, created.ID)
	}

	reversed := []int64{ids[2], ids[1], ids[0]}
	rr := postJSON(t, handler, "/api/clients/reorder", map[string][]int64{"ids": reversed})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", rr.Code, rr.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	var listResp map[string][]clients.Client
	if err := json.Unmarshal(recorder.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	list := listResp["clients"]
	if len(list) != 3 {
		t.Fatalf("got %d clients, expected 3", len(list))
	}
	if list[0].Name != "Tercero" || list[2].Name != "Primero" {
		t.Errorf("unexpected order: %s, %s, %s", list[0].Name, list[1].Name, list[2].Name)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/affordability", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}
