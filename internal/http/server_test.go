package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"farmledger/internal/services"
	"farmledger/internal/storage/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := memory.New()
	expenses := services.NewExpenseService(store, nil)
	sales := services.NewSaleService(store, nil)

	s := NewServer(":0",
		services.NewEstateService(store),
		services.NewWorkerService(store, expenses),
		expenses,
		sales,
		services.NewReportService(store),
	)
	t.Cleanup(func() { s.limiter.Stop() })
	return s
}

func doJSON(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func createEstate(t *testing.T, s *Server, name string) string {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/estates", createEstateRequest{Name: name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create estate: status %d body %s", rec.Code, rec.Body.String())
	}
	var created createdResponse
	decodeBody(t, rec, &created)
	return created.ID
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestEstateEndpoints(t *testing.T) {
	s := newTestServer(t)

	id := createEstate(t, s, "North Block")

	rec := doJSON(t, s, http.MethodGet, "/api/estates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list estates: status %d", rec.Code)
	}
	var estates []estateJSON
	decodeBody(t, rec, &estates)
	if len(estates) != 1 || estates[0].ID != id || estates[0].Name != "North Block" {
		t.Errorf("estates = %+v, want single North Block", estates)
	}

	t.Run("empty name rejected", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/estates", createEstateRequest{Name: "   "})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodDelete, "/api/estates", nil)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}

func TestWorkerEndpoints(t *testing.T) {
	s := newTestServer(t)
	estateID := createEstate(t, s, "Main")

	rec := doJSON(t, s, http.MethodPost, "/api/workers", createWorkerRequest{
		EstateID:  estateID,
		Name:      "Ravi",
		Phone:     "9876543210",
		DailyWage: 500,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create worker: status %d body %s", rec.Code, rec.Body.String())
	}
	var created createdResponse
	decodeBody(t, rec, &created)

	rec = doJSON(t, s, http.MethodGet, "/api/workers?estate="+estateID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list workers: status %d", rec.Code)
	}
	var workers []workerJSON
	decodeBody(t, rec, &workers)
	if len(workers) != 1 || workers[0].DailyWage != 500 {
		t.Errorf("workers = %+v, want single with dailyWage 500", workers)
	}

	t.Run("missing estate filter", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/workers", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("pay wage books an expense", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/workers/pay", payWageRequest{
			WorkerID:    created.ID,
			Year:        2024,
			Month:       2,
			WeekOfMonth: 1,
			DaysWorked:  6,
			Deduction:   200,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("pay wage: status %d body %s", rec.Code, rec.Body.String())
		}

		// 6*500 - 200 = 2800 should show up in the March expense report
		rec = doJSON(t, s, http.MethodGet, "/api/expenses/report?mode=MONTH&year=2024&month=2", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expense report: status %d", rec.Code)
		}
		var rep reportResponse
		decodeBody(t, rec, &rep)
		if rep.Totals.Expense != 2800 {
			t.Errorf("expense total = %v, want 2800", rep.Totals.Expense)
		}
	})

	t.Run("pay wage for unknown worker is 404", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/workers/pay", payWageRequest{
			WorkerID:    "missing",
			Year:        2024,
			Month:       2,
			WeekOfMonth: 1,
			DaysWorked:  1,
		})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestRecordEndpointsAndReport(t *testing.T) {
	s := newTestServer(t)
	estateID := createEstate(t, s, "North Block")

	rec := doJSON(t, s, http.MethodPost, "/api/expenses", createExpenseRequest{
		EstateID: estateID,
		Date:     "2024-03-05",
		Category: "Fertilizer",
		Amount:   1200,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodPost, "/api/sales", createSaleRequest{
		EstateID:  estateID,
		Date:      "2024-03-05",
		BuyerName: "Mandi Trader",
		Items: []saleItemRequest{
			{Crop: "Arecanut", SubType: "Rashi", WeightKg: 1, PricePerKg: 500},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create sale: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet,
		fmt.Sprintf("/api/report?mode=MONTH&year=2024&month=2&estate=%s", estateID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report: status %d body %s", rec.Code, rec.Body.String())
	}

	var rep reportResponse
	decodeBody(t, rec, &rep)

	if rep.Period.Start != "2024-03-01" || rep.Period.End != "2024-03-31" {
		t.Errorf("period = %+v, want 2024-03-01..2024-03-31", rep.Period)
	}
	if rep.Totals.Income != 500 || rep.Totals.Expense != 1200 || rep.Totals.Profit != -700 {
		t.Errorf("totals = %+v, want income 500 expense 1200 profit -700", rep.Totals)
	}
	if len(rep.Series) != 1 || rep.Series[0].Label != "05 Mar" {
		t.Errorf("series = %+v, want single 05 Mar bucket", rep.Series)
	}
	if len(rep.Timeline) != 1 || rep.Timeline[0].Day != "Tue, Mar 5" {
		t.Errorf("timeline = %+v, want single Tue, Mar 5 group", rep.Timeline)
	}
	if len(rep.Timeline) == 1 {
		items := rep.Timeline[0].Items
		if len(items) != 2 || items[0].Kind != "EXPENSE" || items[1].Kind != "INCOME" {
			t.Errorf("timeline items = %+v, want expense then sale", items)
		}
		if items[1].EstateName != "North Block" {
			t.Errorf("estateName = %q, want North Block", items[1].EstateName)
		}
		if items[1].BuyerName != "Mandi Trader" {
			t.Errorf("buyerName = %q, want Mandi Trader", items[1].BuyerName)
		}
	}
	if len(rep.Recent) != 2 {
		t.Errorf("recent = %d entries, want 2", len(rep.Recent))
	}
	if len(rep.Diagnostics) != 0 {
		t.Errorf("diagnostics = %+v, want none", rep.Diagnostics)
	}
}

func TestReportPeriodErrors(t *testing.T) {
	s := newTestServer(t)

	t.Run("custom period missing a bound", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/report?mode=CUSTOM&from=2024-03-01", nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("unparseable custom bound", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/report?mode=CUSTOM&from=2024-03-01&to=soon", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/report?mode=FORTNIGHT", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("inverted custom range matches nothing", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/report?mode=CUSTOM&from=2024-03-31&to=2024-03-01", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var rep reportResponse
		decodeBody(t, rec, &rep)
		if rep.Totals.Income != 0 || rep.Totals.Expense != 0 {
			t.Errorf("totals = %+v, want zeros for inverted range", rep.Totals)
		}
	})
}

func TestSecurityMiddleware(t *testing.T) {
	s := newTestServer(t)

	t.Run("security headers applied", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/estates", nil)
		if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
		}
		if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
			t.Errorf("X-Frame-Options = %q, want DENY", got)
		}
	})

	t.Run("suspicious path rejected", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/../.env", nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/expenses", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		s.Server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
