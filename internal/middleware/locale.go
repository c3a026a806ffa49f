package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

var localeKey = localeContextKey{}

// Locale is the market a check should be run for: a lowercase ISO country
// code plus a lowercase language code.
type Locale struct {
	Region   string
	Language string
}

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// DetectLocale resolves the request locale and stores it in the context.
// Explicit X-Region / X-Language headers win; otherwise the region comes from
// a GeoIP lookup of the client address and the language from Accept-Language.
func DetectLocale(defaultRegion, defaultLanguage string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loc := Locale{
				Region:   detectRegion(r, defaultRegion, lookup),
				Language: detectLanguage(r, defaultLanguage),
			}
			ctx := context.WithValue(r.Context(), localeKey, loc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LocaleFromContext returns the detected locale, or zero values when the
// middleware did not run.
func LocaleFromContext(ctx context.Context) Locale {
	if v, ok := ctx.Value(localeKey).(Locale); ok {
		return v
	}
	return Locale{}
}

func detectRegion(r *http.Request, fallback string, lookup CountryLookup) string {
	if v := strings.TrimSpace(r.Header.Get("X-Region")); v != "" {
		return strings.ToLower(v)
	}
	if lookup != nil {
		if country, err := lookup(clientIP(r)); err == nil && country != "" {
			return strings.ToLower(country)
		}
	}
	return strings.ToLower(fallback)
}

func detectLanguage(r *http.Request, fallback string) string {
	if v := strings.TrimSpace(r.Header.Get("X-Language")); v != "" {
		return strings.ToLower(v)
	}
	if tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil && len(tags) > 0 {
		base, conf := tags[0].Base()
		if conf != language.No {
			return base.String()
		}
	}
	return strings.ToLower(fallback)
}

func clientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
