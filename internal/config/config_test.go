package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefault pins the stock configuration: CEO code, legacy roster size, and
// level defaulting.
func TestDefault(t *testing.T) {
	cfg := Default("/tmp/taskdesk.db")
	if cfg.Access.CEOCode != 12345 {
		t.Fatalf("CEOCode = %d, want 12345", cfg.Access.CEOCode)
	}
	if cfg.Database.Path != "/tmp/taskdesk.db" {
		t.Fatalf("Database.Path = %q", cfg.Database.Path)
	}
	if len(cfg.Legacy.Employees) != 5 {
		t.Fatalf("legacy roster = %d entries, want 5", len(cfg.Legacy.Employees))
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate(defaults) error = %v", err)
	}
}

// TestLoadMissingFileKeepsDefaults verifies the missing-file and empty-file
// fallbacks.
func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	defaults := Default("/tmp/taskdesk.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"), defaults)
	if err != nil {
		t.Fatalf("Load(missing) error = %v", err)
	}
	if cfg.Access.CEOCode != defaults.Access.CEOCode {
		t.Fatalf("Load(missing) changed defaults: %+v", cfg)
	}

	empty := filepath.Join(t.TempDir(), "empty.toml")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write empty config: %v", err)
	}
	cfg, err = Load(empty, defaults)
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	if cfg.Org.Name != defaults.Org.Name {
		t.Fatalf("Load(empty) changed defaults: %+v", cfg)
	}
}

// TestLoadOverridesDefaults verifies a partial TOML file overlays only the
// keys it names.
func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[access]
ceo_code = 54321

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, Default("/tmp/taskdesk.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Access.CEOCode != 54321 {
		t.Fatalf("CEOCode = %d, want override 54321", cfg.Access.CEOCode)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Org.Name != "Phase Engineering" {
		t.Fatalf("Org.Name = %q, want default preserved", cfg.Org.Name)
	}
}

// TestValidate covers the rejection cases.
func TestValidate(t *testing.T) {
	base := Default("/tmp/taskdesk.db")

	noDB := base
	noDB.Database.Path = "  "
	if err := noDB.Validate(); err == nil {
		t.Fatal("Validate(no db path) = nil, want error")
	}

	badCode := base
	badCode.Access.CEOCode = 0
	if err := badCode.Validate(); err == nil {
		t.Fatal("Validate(zero ceo_code) = nil, want error")
	}

	badLevel := base
	badLevel.Logging.Level = "verbose"
	if err := badLevel.Validate(); err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("Validate(bad level) error = %v", err)
	}

	dupRoster := base
	dupRoster.Legacy.Employees = append(dupRoster.Legacy.Employees, dupRoster.Legacy.Employees[0])
	if err := dupRoster.Validate(); err == nil || !strings.Contains(err.Error(), "duplicated") {
		t.Fatalf("Validate(duplicate legacy id) error = %v", err)
	}
}

// TestLegacyRoster maps configured entries into domain employees.
func TestLegacyRoster(t *testing.T) {
	roster := Default("/tmp/taskdesk.db").LegacyRoster()
	if len(roster) != 5 {
		t.Fatalf("LegacyRoster() = %d entries, want 5", len(roster))
	}
	first := roster[0]
	if first.ID != "emp-nahid" || first.HumanID != "20001" || first.AccessCode != 20001 {
		t.Fatalf("LegacyRoster()[0] = %+v", first)
	}
}
