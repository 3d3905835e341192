package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.StoreBackend != StoreAirtable {
		t.Errorf("expected default store backend %q, got %q", StoreAirtable, cfg.StoreBackend)
	}
	if cfg.WorkdayCount != 12 {
		t.Errorf("expected default workday count 12, got %d", cfg.WorkdayCount)
	}
	if cfg.BackendTimeout != 10*time.Second {
		t.Errorf("expected default backend timeout 10s, got %s", cfg.BackendTimeout)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected default session TTL 24h, got %s", cfg.SessionTTL)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("STAFF_CHAT_ID", "-1001234567890")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/salon")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("WORKDAY_COUNT", "6")

	cfg := Load()

	if cfg.TelegramToken != "123:abc" {
		t.Errorf("unexpected telegram token %q", cfg.TelegramToken)
	}
	if cfg.StaffChatID != -1001234567890 {
		t.Errorf("unexpected staff chat id %d", cfg.StaffChatID)
	}
	if cfg.StoreBackend != StorePostgres {
		t.Errorf("unexpected store backend %q", cfg.StoreBackend)
	}
	if cfg.BackendTimeout != 3*time.Second {
		t.Errorf("unexpected backend timeout %s", cfg.BackendTimeout)
	}
	if cfg.WorkdayCount != 6 {
		t.Errorf("unexpected workday count %d", cfg.WorkdayCount)
	}
}

func TestInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("STAFF_CHAT_ID", "not-a-number")
	t.Setenv("BACKEND_TIMEOUT", "soon")

	cfg := Load()

	if cfg.StaffChatID != 0 {
		t.Errorf("expected fallback staff chat id 0, got %d", cfg.StaffChatID)
	}
	if cfg.BackendTimeout != 10*time.Second {
		t.Errorf("expected fallback backend timeout 10s, got %s", cfg.BackendTimeout)
	}
}
