package postgres

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("postgres://localhost/ai2aim")
	if cfg.URL != "postgres://localhost/ai2aim" {
		t.Errorf("URL: got %q", cfg.URL)
	}
	if cfg.MaxOpenConns <= cfg.MaxIdleConns {
		t.Errorf("expected more open than idle conns, got %d/%d", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
}

func TestWithApplicationName(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"url without params", "postgres://u:p@localhost:5432/ai2aim", "postgres://u:p@localhost:5432/ai2aim?application_name=ai2aim-core"},
		{"url keeps sslmode", "postgresql://localhost/ai2aim?sslmode=disable", "postgresql://localhost/ai2aim?application_name=ai2aim-core&sslmode=disable"},
		{"explicit name wins", "postgres://localhost/ai2aim?application_name=worker", "postgres://localhost/ai2aim?application_name=worker"},
		{"key value dsn", "host=localhost dbname=ai2aim", "host=localhost dbname=ai2aim"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withApplicationName(tt.dsn); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSchemaCreatesTables(t *testing.T) {
	for _, table := range []string{"oauth_states", "platform_credentials"} {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("schema missing %s", table)
		}
	}
}

func TestNullTime(t *testing.T) {
	if NullTime(nil).Valid {
		t.Error("nil time should be invalid")
	}
	now := time.Now()
	if nt := NullTime(&now); !nt.Valid || !nt.Time.Equal(now) {
		t.Error("expected valid time")
	}
}
