package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/buybuddy-backend/internal/catalog"
)

func TestCatalogSearchParsesFilters(t *testing.T) {
	svc := &stubCatalogService{}
	categoryID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/search/?q=+lamp+&category="+categoryID.String()+"&price=100-500&sort=HIGH", nil)
	resp := httptest.NewRecorder()

	CatalogSearch(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.query != "lamp" {
		t.Fatalf("expected trimmed query got %q", svc.query)
	}
	if svc.filter.CategoryID == nil || *svc.filter.CategoryID != categoryID {
		t.Fatalf("expected category filter got %+v", svc.filter.CategoryID)
	}
	if svc.filter.MinPrice == nil || svc.filter.MinPrice.String() != "100" || svc.filter.MaxPrice.String() != "500" {
		t.Fatalf("expected price range 100-500 got %v-%v", svc.filter.MinPrice, svc.filter.MaxPrice)
	}
	if svc.filter.Sort != catalog.SortPriceHigh {
		t.Fatalf("expected sort high got %q", svc.filter.Sort)
	}
}

func TestCatalogSearchRejectsBadPrice(t *testing.T) {
	resp := httptest.NewRecorder()
	CatalogSearch(&stubCatalogService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/search/?price=cheap", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAdminAdvanceOrderAcceptsEmptyBody(t *testing.T) {
	svc := &stubOrdersService{}
	orderID := uuid.New()

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/admin/orders/x/status/", nil), "orderID", orderID.String())
	resp := httptest.NewRecorder()
	AdminAdvanceOrder(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.advanced == nil || svc.advanced.Status != "" {
		t.Fatalf("expected empty advance request got %+v", svc.advanced)
	}

	req = withURLParam(httptest.NewRequest(http.MethodPost, "/admin/orders/x/status/", bytes.NewReader([]byte(`{"status":"PROCESSING"}`))), "orderID", orderID.String())
	resp = httptest.NewRecorder()
	AdminAdvanceOrder(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.advanced.Status != "PROCESSING" {
		t.Fatalf("expected explicit status forwarded got %q", svc.advanced.Status)
	}

	req = withURLParam(httptest.NewRequest(http.MethodPost, "/admin/orders/x/status/", bytes.NewReader([]byte(`{"status":"LOST"}`))), "orderID", orderID.String())
	resp = httptest.NewRecorder()
	AdminAdvanceOrder(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status got %d", resp.Code)
	}
}
