package database

import (
	"context"
	"testing"
	"testing/fstest"
	"time"
)

func TestDefaultPostgresConfig(t *testing.T) {
	cfg := DefaultPostgresConfig()

	if cfg.Port != 5432 {
		t.Errorf("Expected port 5432, got %d", cfg.Port)
	}
	if cfg.Password != "" {
		t.Error("Default config must not carry a password")
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("Expected max retries 3, got %d", cfg.MaxRetries)
	}
}

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := &PostgresConfig{
		Host:     "db.internal",
		Port:     6543,
		User:     "app",
		Password: "pw",
		Database: "events",
		SSLMode:  "require",
	}

	expected := "host=db.internal port=6543 user=app password=pw dbname=events sslmode=require"
	if cfg.DSN() != expected {
		t.Errorf("Expected DSN '%s', got '%s'", expected, cfg.DSN())
	}
}

func TestNewPostgres_Unreachable(t *testing.T) {
	cfg := DefaultPostgresConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1
	cfg.MaxRetries = 0
	cfg.ConnectTimeout = 500 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := NewPostgres(ctx, cfg); err == nil {
		t.Error("Expected error for unreachable database, got nil")
	}
}

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b.sql": {Data: []byte("SELECT 2")},
		"0001_a.sql": {Data: []byte("SELECT 1")},
		"README.md":  {Data: []byte("docs")},
		"sub/x.sql":  {Data: []byte("SELECT 3")},
		"0010_c.sql": {Data: []byte("SELECT 10")},
	}

	files, err := migrationFiles(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"0001_a.sql", "0002_b.sql", "0010_c.sql"}
	if len(files) != len(want) {
		t.Fatalf("Expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("Expected %s at %d, got %s", want[i], i, files[i])
		}
	}
}
