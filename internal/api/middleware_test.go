package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthMiddleware_NoKeyConfigured(t *testing.T) {
	s := &Server{apiKey: ""}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := s.authMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/v1/swaps/stats", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 when no API key configured, got %d", rr.Code)
	}
}

func TestAuthMiddleware_HealthBypass(t *testing.T) {
	s := &Server{apiKey: "secret123"}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := s.authMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for /health without auth, got %d", rr.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	s := &Server{apiKey: "secret123"}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := s.authMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/v1/quote/eth-to-usdc", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthMiddleware_WrongKey(t *testing.T) {
	s := &Server{apiKey: "secret123"}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := s.authMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/v1/quote/eth-to-usdc", nil)
	req.Header.Set("Authorization", "Bearer wrong_key")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthMiddleware_CorrectKey(t *testing.T) {
	s := &Server{apiKey: "secret123"}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := s.authMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/v1/quote/eth-to-usdc", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestAuthMiddleware_MalformedBearer(t *testing.T) {
	s := &Server{apiKey: "secret123"}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := s.authMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/v1/quote/eth-to-usdc", nil)
	req.Header.Set("Authorization", "Basic secret123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-Bearer auth, got %d", rr.Code)
	}
}

func TestValidateDate(t *testing.T) {
	valid := []string{"2024-01-15", "2025-12-31", "2020-02-29"}
	for _, d := range valid {
		if !validateDate(d) {
			t.Fatalf("expected %q to be valid", d)
		}
	}

	invalid := []string{
		"", "2024", "01-15-2024", "2024/01/15",
		"abcd-ef-gh", "2024-13-01", "2024-01-32",
		"2024-1-5", "20240115",
	}
	for _, d := range invalid {
		if validateDate(d) {
			t.Fatalf("expected %q to be invalid", d)
		}
	}
}

func TestParseAmount(t *testing.T) {
	n, err := parseAmount("1000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Uint64() != 1000000000 {
		t.Fatalf("got %s", n)
	}

	for _, bad := range []string{"", "-5", "1.5", "0x10", "abc"} {
		if _, err := parseAmount(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestParseAddress(t *testing.T) {
	a, err := parseAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", "caller")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Hex() != "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2" {
		t.Fatalf("got %s", a.Hex())
	}

	for _, bad := range []string{"", "0x123", "not-an-address"} {
		if _, err := parseAddress(bad, "caller"); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestParseDirection(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/swaps/recent?direction=eth_to_usdc", nil)
	d, err := parseDirection(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d == nil || *d != "eth_to_usdc" {
		t.Fatalf("got %v", d)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/swaps/recent?direction=all", nil)
	d, err = parseDirection(req)
	if err != nil || d != nil {
		t.Fatalf("direction=all should mean no filter, got %v, %v", d, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/swaps/recent?direction=sideways", nil)
	if _, err := parseDirection(req); err == nil {
		t.Fatal("expected invalid direction to be rejected")
	}
}

func TestParseLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/swaps/recent", nil)
	if got := parseLimit(req, 50); got != 50 {
		t.Fatalf("default: got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/swaps/recent?limit=10", nil)
	if got := parseLimit(req, 50); got != 10 {
		t.Fatalf("explicit: got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/swaps/recent?limit=-3", nil)
	if got := parseLimit(req, 50); got != 50 {
		t.Fatalf("negative falls back to default: got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/swaps/recent?limit=99999", nil)
	if got := parseLimit(req, 50); got != maxQueryLimit {
		t.Fatalf("cap: got %d", got)
	}
}
