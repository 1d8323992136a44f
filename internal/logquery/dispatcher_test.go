package logquery

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jmurray2011/logid/internal/config"
	clerrors "github.com/jmurray2011/logid/internal/errors"
	"github.com/jmurray2011/logid/internal/logging"
	"github.com/jmurray2011/logid/internal/region"
)

// fakeService serves /auth/ok, /auth/deny and /log for every test region.
type fakeService struct {
	srv       *httptest.Server
	authCalls int32
	logCalls  int32
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	f := &fakeService{}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/ok", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.authCalls, 1)
		w.Header().Set("x-jwt-token", "jwt-"+r.URL.Query().Get("r"))
	})
	mux.HandleFunc("/auth/deny", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.authCalls, 1)
		http.Error(w, "session expired", http.StatusUnauthorized)
	})
	mux.HandleFunc("/log", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.logCalls, 1)
		if r.Header.Get("X-Jwt-Token") == "" {
			http.Error(w, "no token", http.StatusForbidden)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"items":[{"id":"i","group":{},"value":[{"id":"v","kv_list":[{"key":"_msg","value":"hi"}]}]}]}}`)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeService) region(key, authPath string, configured bool) region.Region {
	r := region.Region{
		Key:         key,
		DisplayName: key + " region",
		SessionVar:  "CAS_SESSION_" + key,
		AuthURL:     f.srv.URL + authPath + "?r=" + key,
		VRegion:     key + "-vr",
		Configured:  configured,
	}
	if configured {
		r.LogURL = f.srv.URL + "/log"
	}
	return r
}

func (f *fakeService) registry() *region.Registry {
	return region.NewRegistry(
		f.region("us", "/auth/ok", true),
		f.region("eu", "/auth/ok", true),
		f.region("i18n", "/auth/deny", true),
		f.region("cn", "/auth/ok", false),
	)
}

func allCredentials() *config.Credentials {
	return config.NewCredentials(config.MapLookup(map[string]string{"CAS_SESSION": "generic"}))
}

func testOptions(f *fakeService) DispatcherOptions {
	return DispatcherOptions{
		Registry:    f.registry(),
		Credentials: allCredentials(),
		Logger:      logging.NopLogger{},
	}
}

func TestQueryAllPartialFailure(t *testing.T) {
	f := newFakeService(t)
	d, err := NewDispatcher([]string{"us", "eu", "i18n"}, testOptions(f))
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer d.Close()

	out := d.QueryAll(context.Background(), "abc", nil)
	if len(out) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(out))
	}

	var failures, successes int
	for key, o := range out {
		switch {
		case o.Err != nil && o.Result == nil:
			failures++
			if key != "i18n" {
				t.Errorf("unexpected failure for %s: %v", key, o.Err)
			}
			if !errors.Is(o.Err, clerrors.ErrAuthenticationFailed) {
				t.Errorf("i18n err = %v, want authentication failure", o.Err)
			}
		case o.Err == nil && o.Result != nil:
			successes++
			if o.Result.Region != key || o.Result.TotalItems != 1 {
				t.Errorf("%s result = %+v", key, o.Result)
			}
		default:
			t.Errorf("%s outcome must have exactly one of result or error: %+v", key, o)
		}
	}
	if failures != 1 || successes != 2 {
		t.Errorf("failures/successes = %d/%d, want 1/2", failures, successes)
	}
}

func TestNewDispatcherUnknownRegion(t *testing.T) {
	f := newFakeService(t)
	_, err := NewDispatcher([]string{"us", "mars"}, testOptions(f))

	if !errors.Is(err, clerrors.ErrUnsupportedRegion) {
		t.Fatalf("err = %v, want unsupported region", err)
	}
	if errors.Is(err, clerrors.ErrRegionNotConfigured) {
		t.Error("unsupported must be distinguishable from not configured")
	}
}

func TestNewDispatcherMissingCredential(t *testing.T) {
	f := newFakeService(t)
	opts := testOptions(f)
	opts.Credentials = config.NewCredentials(config.MapLookup(map[string]string{"CAS_SESSION_us": "only-us"}))

	d, err := NewDispatcher([]string{"us", "eu"}, opts)
	if d != nil {
		t.Error("construction must be all-or-nothing")
	}
	if !errors.Is(err, clerrors.ErrMissingCredentials) {
		t.Fatalf("err = %v, want missing credentials", err)
	}

	var e *clerrors.Error
	if errors.As(err, &e) && e.Region != "eu" {
		t.Errorf("Region = %q, want eu", e.Region)
	}
	if n := atomic.LoadInt32(&f.authCalls); n != 0 {
		t.Errorf("auth calls = %d, want 0 (construction does no I/O)", n)
	}
}

func TestDispatcherRegions(t *testing.T) {
	f := newFakeService(t)
	d, err := NewDispatcher([]string{"US", "us", " eu "}, testOptions(f))
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	got := d.Regions()
	if len(got) != 2 || got[0] != "eu" || got[1] != "us" {
		t.Errorf("Regions() = %v, want [eu us]", got)
	}
}

func TestDispatcherQueryUnmanagedRegion(t *testing.T) {
	f := newFakeService(t)
	d, err := NewDispatcher([]string{"us"}, testOptions(f))
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	_, err = d.Query(context.Background(), "eu", "abc", nil)
	if !errors.Is(err, clerrors.ErrUnsupportedRegion) {
		t.Errorf("err = %v, want unsupported region", err)
	}
}

func TestDispatcherUnconfiguredRegion(t *testing.T) {
	f := newFakeService(t)
	d, err := NewDispatcher([]string{"cn"}, testOptions(f))
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	_, err = d.Query(context.Background(), "cn", "abc", nil)
	if !errors.Is(err, clerrors.ErrRegionNotConfigured) {
		t.Fatalf("err = %v, want region not configured", err)
	}
	if a, l := atomic.LoadInt32(&f.authCalls), atomic.LoadInt32(&f.logCalls); a != 0 || l != 0 {
		t.Errorf("auth/log calls = %d/%d, want 0/0", a, l)
	}
}

func TestDispatcherReusesToken(t *testing.T) {
	f := newFakeService(t)
	d, err := NewDispatcher([]string{"us"}, testOptions(f))
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer d.Close()

	for i := 0; i < 3; i++ {
		res, err := d.Query(context.Background(), "US", "abc", nil)
		if err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
		if len(res.Messages) != 1 || res.Messages[0].Values[0].Value != "hi" {
			t.Errorf("query %d messages = %+v", i, res.Messages)
		}
	}

	if n := atomic.LoadInt32(&f.authCalls); n != 1 {
		t.Errorf("auth calls = %d, want 1", n)
	}
	if n := atomic.LoadInt32(&f.logCalls); n != 3 {
		t.Errorf("log calls = %d, want 3", n)
	}
}

func TestDispatcherRaw(t *testing.T) {
	f := newFakeService(t)
	d, err := NewDispatcher([]string{"eu"}, testOptions(f))
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	resp, err := d.Raw(context.Background(), "eu", "abc", []string{"svc"})
	if err != nil {
		t.Fatalf("Raw: %v", err)
	}
	if resp.Shape != ShapeNested || len(resp.Data.Items) != 1 {
		t.Errorf("resp = %+v", resp)
	}
}
