package pagination_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/cookbook/pkg/pagination"
)

func defaultConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := pagination.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.DefaultPageSize != 20 {
		t.Errorf("DefaultPageSize = %d, want 20", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100", cfg.MaxPageSize)
	}
}

func TestConfigFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "50")
	t.Setenv("TEST_MAX_PAGE", "200")

	env := &pagination.ConfigEnv{
		DefaultPageSize: "TEST_PAGE_SIZE",
		MaxPageSize:     "TEST_MAX_PAGE",
	}

	cfg := pagination.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.DefaultPageSize != 50 {
		t.Errorf("DefaultPageSize = %d, want 50", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 200 {
		t.Errorf("MaxPageSize = %d, want 200", cfg.MaxPageSize)
	}
}

func TestConfigFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     pagination.Config
		wantErr string
	}{
		{
			name:    "default exceeds max",
			cfg:     pagination.Config{DefaultPageSize: 200, MaxPageSize: 100},
			wantErr: "exceeds max_page_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
	overlay := pagination.Config{DefaultPageSize: 50}
	base.Merge(&overlay)

	if base.DefaultPageSize != 50 {
		t.Errorf("DefaultPageSize = %d, want 50", base.DefaultPageSize)
	}
	if base.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100 (unchanged)", base.MaxPageSize)
	}
}

func TestConfigPageSize(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 50}

	tests := []struct {
		requested int
		want      int
	}{
		{0, 20},
		{-3, 20},
		{10, 10},
		{50, 50},
		{500, 50},
	}

	for _, tt := range tests {
		if got := cfg.PageSize(tt.requested); got != tt.want {
			t.Errorf("PageSize(%d) = %d, want %d", tt.requested, got, tt.want)
		}
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  pagination.PageRequest
	}{
		{"empty uses defaults", "", pagination.PageRequest{Page: 1, PageSize: 20}},
		{"explicit", "page=3&page_size=5", pagination.PageRequest{Page: 3, PageSize: 5}},
		{"size clamped to max", "page_size=500", pagination.PageRequest{Page: 1, PageSize: 100}},
		{"negative page", "page=-2", pagination.PageRequest{Page: 1, PageSize: 20}},
		{"malformed values", "page=x&page_size=y", pagination.PageRequest{Page: 1, PageSize: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			got := pagination.PageRequestFromQuery(values, defaultConfig())
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		pageSize  int
		wantPages int
	}{
		{"exact multiple", 40, 20, 2},
		{"remainder", 41, 20, 3},
		{"empty", 0, 20, 1},
		{"single partial", 5, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pagination.NewPageResult[int](nil, tt.total, 1, tt.pageSize)
			if got.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantPages)
			}
			if got.Data == nil {
				t.Error("Data should be an empty slice, not nil")
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name string
		req  pagination.PageRequest
		want []string
	}{
		{"first page", pagination.PageRequest{Page: 1, PageSize: 2}, []string{"a", "b"}},
		{"last partial page", pagination.PageRequest{Page: 3, PageSize: 2}, []string{"e"}},
		{"past the end", pagination.PageRequest{Page: 9, PageSize: 2}, []string{}},
		{"whole listing", pagination.PageRequest{Page: 1, PageSize: 10}, items},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pagination.Paginate(items, tt.req)
			if diff := cmp.Diff(tt.want, got.Data); diff != "" {
				t.Errorf("data mismatch (-want +got):\n%s", diff)
			}
			if got.Total != len(items) {
				t.Errorf("Total = %d, want %d", got.Total, len(items))
			}
			if got.Page != tt.req.Page || got.PageSize != tt.req.PageSize {
				t.Errorf("page echo: got %d/%d", got.Page, got.PageSize)
			}
		})
	}
}
