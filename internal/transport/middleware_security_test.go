package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var alwaysSecurityHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"X-XSS-Protection":        "1; mode=block",
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
}

func TestWithSecurityHeaders(t *testing.T) {
	search := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	cases := []struct {
		name       string
		production bool
		target     string
		wantHSTS   bool
	}{
		{"production search", true, "/search?q=brunch", true},
		{"production status", true, "/search/status", true},
		{"development search", false, "/search?q=brunch", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WithSecurityHeaders(search, tc.production).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.target, nil))

			if w.Code != http.StatusTeapot {
				t.Errorf("status = %d, the wrapped handler's status must pass through", w.Code)
			}
			for key, want := range alwaysSecurityHeaders {
				if got := w.Header().Get(key); got != want {
					t.Errorf("%s = %q, want %q", key, got, want)
				}
			}

			hsts := w.Header().Get("Strict-Transport-Security")
			if tc.wantHSTS != (hsts != "") {
				t.Errorf("Strict-Transport-Security = %q, want present=%v", hsts, tc.wantHSTS)
			}
		})
	}
}
