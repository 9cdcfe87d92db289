package module_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/cookbook/pkg/module"
)

func echoPath(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.URL.Path))
}

func TestNewInvalidPrefixPanics(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"empty", ""},
		{"no leading slash", "api"},
		{"nested path", "/api/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("expected panic for invalid prefix")
				}
			}()
			module.New(tt.prefix, http.NewServeMux())
		})
	}
}

func TestServeStripsPrefix(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", echoPath)

	m := module.New("/api", mux)

	tests := []struct {
		target string
		want   string
	}{
		{"/api", "/"},
		{"/api/recipes", "/recipes"},
		{"/api/recipes/abc/fields", "/recipes/abc/fields"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			rec := httptest.NewRecorder()
			m.Serve(rec, req)

			if got := rec.Body.String(); got != tt.want {
				t.Errorf("inner path: got %s, want %s", got, tt.want)
			}
			if req.URL.Path != tt.target {
				t.Errorf("outer request mutated: %s", req.URL.Path)
			}
		})
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})

	m := module.New("/api", mux)
	m.Use(tag("recover"), tag("logger"))
	m.Use(tag("cors"))

	m.Serve(httptest.NewRecorder(), httptest.NewRequest("GET", "/api", nil))

	want := []string{"recover", "logger", "cors", "handler"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

func TestRouterDispatch(t *testing.T) {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /", echoPath)

	router := module.NewRouter()
	router.Mount(module.New("/api", apiMux))
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	tests := []struct {
		name   string
		target string
		status int
		body   string
	}{
		{"module", "/api/recipes", http.StatusOK, "/recipes"},
		{"module root", "/api", http.StatusOK, "/"},
		{"trailing slash", "/api/recipes/", http.StatusOK, "/recipes"},
		{"native", "/healthz", http.StatusOK, "ok"},
		{"similar prefix", "/apiary", http.StatusNotFound, ""},
		{"unknown", "/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.target, nil))

			if rec.Code != tt.status {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body: got %s, want %s", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestRouterNotFoundJSON(t *testing.T) {
	router := module.NewRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/missing", nil))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "no route for GET /missing" {
		t.Errorf("error: got %q", body["error"])
	}
}

func TestRouterMountDuplicatePanics(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/api", http.NewServeMux()))

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for duplicate prefix")
		}
	}()
	router.Mount(module.New("/api", http.NewServeMux()))
}

func TestRouterPrefixes(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/web", http.NewServeMux()))
	router.Mount(module.New("/api", http.NewServeMux()))

	if diff := cmp.Diff([]string{"/api", "/web"}, router.Prefixes()); diff != "" {
		t.Errorf("prefixes (-want +got):\n%s", diff)
	}
}
