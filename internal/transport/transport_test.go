package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProxyURL(t *testing.T) {
	tests := []struct {
		name      string
		httpsProx string
		httpProx  string
		want      string
	}{
		{"secure proxy preferred", "http://secure:3128", "http://plain:3128", "secure:3128"},
		{"plain fallback", "", "http://plain:3128", "plain:3128"},
		{"whitespace secure skipped", "   ", "http://plain:3128", "plain:3128"},
		{"unparsable secure skipped", "://bad", "http://plain:3128", "plain:3128"},
		{"none", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProxyURL(tt.httpsProx, tt.httpProx)
			if tt.want == "" {
				if got != nil {
					t.Errorf("ProxyURL() = %v, want nil", got)
				}
				return
			}
			if got == nil || got.Host != tt.want {
				t.Errorf("ProxyURL() = %v, want host %q", got, tt.want)
			}
		})
	}
}

func TestNewHTTPClientTimeout(t *testing.T) {
	if c := NewHTTPClient(Options{}); c.Timeout != DefaultTimeout {
		t.Errorf("default timeout = %v, want %v", c.Timeout, DefaultTimeout)
	}
	if c := NewHTTPClient(Options{Timeout: 2 * time.Second}); c.Timeout != 2*time.Second {
		t.Errorf("timeout = %v, want 2s", c.Timeout)
	}
}

func TestDefaultHeaders(t *testing.T) {
	var gotUA, gotAccept, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotCustom = r.Header.Get("X-Jwt-Token")
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Jwt-Token", "tok")

	resp, err := NewHTTPClient(Options{}).Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if gotUA != userAgent {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotAccept != "application/json" {
		t.Errorf("caller Accept header should be kept, got %q", gotAccept)
	}
	if gotCustom != "tok" {
		t.Errorf("X-Jwt-Token = %q", gotCustom)
	}
}
