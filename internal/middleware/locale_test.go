package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func localeProbe(t *testing.T, req *http.Request, lookup CountryLookup) Locale {
	t.Helper()
	var got Locale
	handler := DetectLocale("us", "en", lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestDetectLocaleHeadersWin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Region", "DE")
	req.Header.Set("X-Language", "DE")
	req.Header.Set("Accept-Language", "fr-FR")

	got := localeProbe(t, req, nil)
	if got.Region != "de" || got.Language != "de" {
		t.Fatalf("locale = %+v, want de/de", got)
	}
}

func TestDetectLocaleAcceptLanguage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.5")

	got := localeProbe(t, req, nil)
	if got.Language != "pt" {
		t.Fatalf("language = %q, want %q", got.Language, "pt")
	}
	if got.Region != "us" {
		t.Fatalf("region = %q, want default %q", got.Region, "us")
	}
}

func TestDetectLocaleGeoIPRegion(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")

	lookup := func(ip string) (string, error) {
		if ip != "203.0.113.9" {
			t.Fatalf("lookup ip = %q", ip)
		}
		return "GB", nil
	}
	got := localeProbe(t, req, lookup)
	if got.Region != "gb" {
		t.Fatalf("region = %q, want %q", got.Region, "gb")
	}
}

func TestDetectLocaleFallsBackToDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	got := localeProbe(t, req, nil)
	if got.Region != "us" || got.Language != "en" {
		t.Fatalf("locale = %+v, want us/en", got)
	}
}

func TestLocaleFromContextWithoutMiddleware(t *testing.T) {
	got := LocaleFromContext(context.Background())
	if got.Region != "" || got.Language != "" {
		t.Fatalf("locale = %+v, want zero value", got)
	}
}
