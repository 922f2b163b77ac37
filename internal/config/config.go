package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/phaseeng/taskdesk/internal/domain"
)

type Config struct {
	Org      OrgConfig      `toml:"org"`
	Access   AccessConfig   `toml:"access"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Legacy   LegacyConfig   `toml:"legacy"`
}

type OrgConfig struct {
	Name    string `toml:"name"`
	Tagline string `toml:"tagline"`
}

type AccessConfig struct {
	CEOCode int `toml:"ceo_code"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

// LegacyConfig captures the fixed roster and vocabularies that version-1
// envelopes referenced implicitly. Only the v1 to v2 migration reads these.
type LegacyConfig struct {
	Employees []LegacyEmployee `toml:"employees"`
	TaskTypes []string         `toml:"task_types"`
	Projects  []string         `toml:"projects"`
}

type LegacyEmployee struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	EmployeeID  string `toml:"employee_id"`
	Designation string `toml:"designation"`
	AccessCode  int    `toml:"access_code"`
}

// Default returns the stock configuration for a database path.
func Default(dbPath string) Config {
	return Config{
		Org: OrgConfig{
			Name:    "Phase Engineering",
			Tagline: "Assignment, task & daily work monitoring",
		},
		Access: AccessConfig{
			CEOCode: 12345,
		},
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Legacy: LegacyConfig{
			Employees: []LegacyEmployee{
				{ID: "emp-nahid", Name: "Nahid", EmployeeID: "20001", Designation: "Engineer", AccessCode: 20001},
				{ID: "emp-hasan", Name: "Hasan", EmployeeID: "20002", Designation: "Engineer", AccessCode: 20002},
				{ID: "emp-saikot", Name: "Saikot", EmployeeID: "20003", Designation: "Engineer", AccessCode: 20003},
				{ID: "emp-asma", Name: "Asma Akter", EmployeeID: "20004", Designation: "Engineer", AccessCode: 20004},
				{ID: "emp-nayon", Name: "Nayon Kumar", EmployeeID: "20005", Designation: "Engineer", AccessCode: 20005},
			},
			TaskTypes: []string{"Design", "Development", "Testing", "Site Visit", "Documentation", "Client Support"},
			Projects:  []string{"Phase Tower", "Road Expansion", "Factory Automation", "Bridge Survey"},
		},
	}
}

// Load reads a TOML config over the provided defaults. A missing or empty
// file yields the defaults unchanged.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	if c.Access.CEOCode <= 0 {
		return errors.New("access.ceo_code must be a positive number")
	}
	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	seenID := map[string]struct{}{}
	for i, e := range c.Legacy.Employees {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("legacy.employees[%d].id is required", i)
		}
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("legacy.employees[%d].name is required", i)
		}
		if _, ok := seenID[e.ID]; ok {
			return fmt.Errorf("legacy.employees[%d].id is duplicated: %s", i, e.ID)
		}
		seenID[e.ID] = struct{}{}
	}
	return nil
}

// LegacyRoster maps the configured legacy employees into domain entities for
// the storage migration.
func (c Config) LegacyRoster() []domain.Employee {
	out := make([]domain.Employee, 0, len(c.Legacy.Employees))
	for _, e := range c.Legacy.Employees {
		out = append(out, domain.Employee{
			ID:          e.ID,
			Name:        e.Name,
			HumanID:     e.EmployeeID,
			Designation: e.Designation,
			AccessCode:  e.AccessCode,
		})
	}
	return out
}
