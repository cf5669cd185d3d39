package storeapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" {
		t.Fatalf("scheme = %q, want https", u.Scheme)
	}
	if u.Path != "/api" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL accepted url without host")
	}
}

func TestClient_CRUDRoundTrip(t *testing.T) {
	t.Parallel()

	type seen struct {
		method, path, contentType, requestID, userAgent string
		body                                            map[string]any
	}
	var calls []seen

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := seen{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			requestID:   r.Header.Get("X-Request-ID"),
			userAgent:   r.Header.Get("User-Agent"),
		}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &s.body)
		}
		calls = append(calls, s)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/products":
			_, _ = w.Write([]byte(`[{"id":1,"title":"Bag","price":109.95,"image":"b.png","rating":{"rate":3.9,"count":120}},{"id":5,"title":"Ring","price":695,"image":""}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/v1/products":
			_, _ = w.Write([]byte(`{"id":21,"title":"X","price":9.99,"image":""}`))
		case r.Method == http.MethodPut && r.URL.Path == "/v1/products/5":
			_, _ = w.Write([]byte(`{"id":5,"title":"Ring 2","price":"700"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/v1/products/5":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/v1/", WithUserAgent("kiosk-test/1"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	products, err := c.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if len(products) != 2 || products[0].ID != 1 || products[1].ID != 5 {
		t.Fatalf("ListProducts = %#v, want ids 1 and 5", products)
	}
	if !products[0].Price.Equal(decimal.RequireFromString("109.95")) {
		t.Fatalf("price = %s, want 109.95", products[0].Price)
	}
	if products[0].Rating == nil || products[0].Rating.Count != 120 {
		t.Fatalf("rating = %#v, want count 120", products[0].Rating)
	}
	if products[1].Rating != nil {
		t.Fatalf("rating = %#v, want nil when omitted", products[1].Rating)
	}

	created, err := c.CreateProduct(ctx, Product{
		ID:     6,
		Title:  "X",
		Price:  decimal.RequireFromString("9.99"),
		Rating: &Rating{Rate: decimal.NewFromInt(4)},
	})
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}
	if created.ID != 21 {
		t.Fatalf("CreateProduct echo id = %d, want 21", created.ID)
	}

	updated, err := c.UpdateProduct(ctx, 5, Product{ID: 5, Title: "Ring 2", Price: decimal.NewFromInt(700)})
	if err != nil {
		t.Fatalf("UpdateProduct returned error: %v", err)
	}
	if updated.Title != "Ring 2" || !updated.Price.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("UpdateProduct echo = %#v", updated)
	}

	if err := c.DeleteProduct(ctx, 5); err != nil {
		t.Fatalf("DeleteProduct returned error: %v", err)
	}

	if len(calls) != 4 {
		t.Fatalf("server saw %d calls, want 4", len(calls))
	}
	post := calls[1]
	if post.contentType != "application/json" {
		t.Fatalf("POST Content-Type = %q, want application/json", post.contentType)
	}
	if price, ok := post.body["price"].(float64); !ok || price != 9.99 {
		t.Fatalf("POST price = %#v, want JSON number 9.99", post.body["price"])
	}
	rating, ok := post.body["rating"].(map[string]any)
	if !ok || rating["rate"] != float64(4) {
		t.Fatalf("POST rating = %#v, want rate 4", post.body["rating"])
	}
	if calls[2].body["id"] != float64(5) {
		t.Fatalf("PUT body id = %#v, want 5", calls[2].body["id"])
	}
	for _, call := range calls {
		if call.requestID == "" {
			t.Fatalf("%s %s sent no X-Request-ID", call.method, call.path)
		}
		if call.userAgent != "kiosk-test/1" {
			t.Fatalf("User-Agent = %q, want kiosk-test/1", call.userAgent)
		}
	}
	if calls[0].requestID == calls[1].requestID {
		t.Fatalf("request ids should differ per call")
	}
}

func TestClient_RemoteAndDecodeErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case http.MethodDelete:
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.ListProducts(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("ListProducts error = %v, want decode response error", err)
	}

	err = c.DeleteProduct(context.Background(), 3)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("DeleteProduct error = %v, want *RemoteError", err)
	}
	if remote.StatusCode != http.StatusInternalServerError || remote.Path != "/products/3" {
		t.Fatalf("RemoteError = %#v, want 500 on /products/3", remote)
	}
	if !strings.Contains(err.Error(), "returned status 500: nope") {
		t.Fatalf("RemoteError message = %q", err.Error())
	}

	// Empty body on a write is tolerated.
	echoed, err := c.UpdateProduct(context.Background(), 3, Product{ID: 3})
	if err != nil {
		t.Fatalf("UpdateProduct returned error on empty body: %v", err)
	}
	if echoed.ID != 0 {
		t.Fatalf("UpdateProduct echo = %#v, want zero product", echoed)
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, WithTimeout(500*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.ListProducts(context.Background())
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("ListProducts error = %v, want *NetworkError", err)
	}
	if netErr.Method != http.MethodGet || netErr.Unwrap() == nil {
		t.Fatalf("NetworkError = %#v, want GET with cause", netErr)
	}
}

func TestClient_RecordsMetrics(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	c, err := NewClient(server.URL, WithMetrics(metrics))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if _, err := c.ListProducts(context.Background()); err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	_ = c.DeleteProduct(context.Background(), 1)

	if got := testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "ok")); got != 1 {
		t.Fatalf("GET ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues("DELETE", "remote_error")); got != 1 {
		t.Fatalf("DELETE remote_error count = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(metrics.duration); n != 2 {
		t.Fatalf("duration series = %d, want 2", n)
	}
}

func TestProduct_MarshalOmitsNilRating(t *testing.T) {
	raw, err := json.Marshal(Product{ID: 2, Title: "T", Price: decimal.RequireFromString("1.50")})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	got := string(raw)
	if strings.Contains(got, "rating") {
		t.Fatalf("Marshal = %s, want no rating key", got)
	}
	if !strings.Contains(got, `"price":1.5`) {
		t.Fatalf("Marshal = %s, want numeric price", got)
	}
}
