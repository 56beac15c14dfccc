package config

import (
	"errors"
	"os"
	"testing"

	"pgregory.net/rapid"
)

func TestConfigMergePrecedence(t *testing.T) {
	// Generator for a non-empty string field value.
	nonEmptyString := rapid.StringMatching(`[a-zA-Z0-9/_.-]{1,20}`)

	// Generator for a Config with all string fields either empty or non-empty.
	configGen := rapid.Custom(func(t *rapid.T) *Config {
		cfg := &Config{}
		if rapid.Bool().Draw(t, "hasMarkerAttr") {
			cfg.MarkerAttr = nonEmptyString.Draw(t, "markerAttr")
		}
		if rapid.Bool().Draw(t, "hasDatasetPath") {
			cfg.DatasetPath = nonEmptyString.Draw(t, "datasetPath")
		}
		if rapid.Bool().Draw(t, "hasDataDir") {
			cfg.DataDir = nonEmptyString.Draw(t, "dataDir")
		}
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		global := configGen.Draw(t, "global")
		project := configGen.Draw(t, "project")

		merged := Merge(global, project)
		defaults := Defaults()

		checkStringField(t, "MarkerAttr",
			global.MarkerAttr, project.MarkerAttr, defaults.MarkerAttr,
			merged.MarkerAttr)
		checkStringField(t, "DatasetPath",
			global.DatasetPath, project.DatasetPath, defaults.DatasetPath,
			merged.DatasetPath)
		checkStringField(t, "DataDir",
			global.DataDir, project.DataDir, defaults.DataDir,
			merged.DataDir)
	})
}

// checkStringField asserts the merge precedence rule for a single string field:
//   - project non-empty  → merged == project
//   - project empty, global non-empty → merged == global
//   - both empty → merged == defaultVal
func checkStringField(t *rapid.T, name, globalVal, projectVal, defaultVal, mergedVal string) {
	t.Helper()
	switch {
	case projectVal != "":
		if mergedVal != projectVal {
			t.Fatalf("%s: both set — expected project value %q, got %q", name, projectVal, mergedVal)
		}
	case globalVal != "":
		if mergedVal != globalVal {
			t.Fatalf("%s: only global set — expected global value %q, got %q", name, globalVal, mergedVal)
		}
	default:
		if mergedVal != defaultVal {
			t.Fatalf("%s: neither set — expected default %q, got %q", name, defaultVal, mergedVal)
		}
	}
}

func TestDefaultsCarryMarkerAttr(t *testing.T) {
	if Defaults().MarkerAttr != "data-tooltip-id" {
		t.Fatalf("default marker attribute: got %q", Defaults().MarkerAttr)
	}
}

func TestLoadFileParseError(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "cfg-*.json")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	if _, err := f.WriteString("{not json"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	f.Close()

	_, err = loadFile(f.Name(), true)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got: %v", err)
	}
}

func TestLoadFileAbsent(t *testing.T) {
	cfg, err := loadFile("/nonexistent/.ngtooltiprc", false)
	if err != nil {
		t.Fatalf("absent project config should not error: %v", err)
	}
	if cfg != nil {
		t.Fatalf("absent project config should be nil, got %#v", cfg)
	}

	withDefaults, err := loadFile("/nonexistent/config.json", true)
	if err != nil {
		t.Fatalf("absent global config should not error: %v", err)
	}
	if withDefaults == nil || withDefaults.MarkerAttr != "data-tooltip-id" {
		t.Fatalf("absent global config should return defaults, got %#v", withDefaults)
	}
}
