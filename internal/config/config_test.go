package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"TOKEN", "SPREADSHEET_NAME", "DRIVE_FOLDER_ID", "DATABASE_URL", "PORT"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.Token != "" || cfg.SpreadsheetName != "" || cfg.DriveFolderID != "" || cfg.DatabaseURL != "" {
		t.Errorf("expected empty optional values, got %+v", cfg)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("TOKEN", "123:abc")
	t.Setenv("SPREADSHEET_NAME", "App Feedback")
	t.Setenv("DRIVE_FOLDER_ID", "folder-1")
	t.Setenv("DATABASE_URL", "postgres://localhost/feedback")
	t.Setenv("PORT", "9090")

	cfg := LoadConfig()
	if cfg.Token != "123:abc" {
		t.Errorf("unexpected token %q", cfg.Token)
	}
	if cfg.SpreadsheetName != "App Feedback" {
		t.Errorf("unexpected spreadsheet name %q", cfg.SpreadsheetName)
	}
	if cfg.DriveFolderID != "folder-1" {
		t.Errorf("unexpected folder id %q", cfg.DriveFolderID)
	}
	if cfg.DatabaseURL != "postgres://localhost/feedback" {
		t.Errorf("unexpected database url %q", cfg.DatabaseURL)
	}
	if cfg.Port != "9090" {
		t.Errorf("unexpected port %q", cfg.Port)
	}
}
