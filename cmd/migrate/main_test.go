package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{"none", nil, 0, false},
		{"count", []string{"3"}, 3, false},
		{"zero", []string{"0"}, 0, true},
		{"negative", []string{"-2"}, 0, true},
		{"word", []string{"all"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSteps(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveDSN(t *testing.T) {
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(orig)
		dsn = ""
	})

	dsn = "postgres://flag@host/db"
	t.Setenv(envDSN, "postgres://env@host/db")
	if got, _ := resolveDSN(); got != dsn {
		t.Errorf("flag should win, got %s", got)
	}

	dsn = ""
	if got, _ := resolveDSN(); got != "postgres://env@host/db" {
		t.Errorf("env should win over config, got %s", got)
	}

	t.Setenv(envDSN, "")
	t.Setenv("COOKBOOK_DB_NAME", "cookbook")
	t.Setenv("COOKBOOK_DB_USER", "chef")
	got, err := resolveDSN()
	if err != nil {
		t.Fatalf("resolve from config: %v", err)
	}
	if want := "postgres://chef:@localhost:5432/cookbook?sslmode=disable"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestReport(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		wantErr bool
	}{
		{"applied", nil, "up complete\n", false},
		{"nothing pending", migrate.ErrNoChange, "no change\n", false},
		{"failure", errors.New("connection refused"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := &cobra.Command{Use: "up"}
			cmd.SetOut(&out)

			err := report(cmd, tt.err)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.HasPrefix(err.Error(), "up: ") {
				t.Errorf("error should name the command, got %q", err)
			}
			if out.String() != tt.want {
				t.Errorf("output: got %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestVersionCommandUnknownDriver(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version", "--dsn", "bogus://localhost/cookbook"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		dsn = ""
	})

	err := rootCmd.Execute()
	if err == nil || !strings.HasPrefix(err.Error(), "version: ") {
		t.Fatalf("error: got %v, want a version failure", err)
	}
	if strings.Contains(out.String(), "complete") {
		t.Errorf("version must not print a completion line, got %q", out.String())
	}
}
