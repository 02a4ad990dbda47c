package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"signal-metrics/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9595" {
		t.Errorf("port = %q, want 9595", cfg.Server.Port)
	}
	if cfg.Analysis.DistanceMethod != models.MethodGeodesic {
		t.Errorf("distance method = %q, want geodesic", cfg.Analysis.DistanceMethod)
	}
	if cfg.Models.FSPL != models.DefaultFSPLParams() {
		t.Errorf("fspl = %+v, want defaults", cfg.Models.FSPL)
	}
	if cfg.Models.TwoRay != models.DefaultTwoRayParams() {
		t.Errorf("two-ray = %+v, want defaults", cfg.Models.TwoRay)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("DISTANCE_METHOD", "Haversine")
	t.Setenv("MODEL_FREQUENCY_HZ", "2.4e9")
	t.Setenv("MODEL_TX_HEIGHT_M", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Analysis.DistanceMethod != models.MethodHaversine {
		t.Errorf("distance method = %q, want haversine", cfg.Analysis.DistanceMethod)
	}
	if cfg.Models.FSPL.FrequencyHz != 2.4e9 {
		t.Errorf("frequency = %v, want 2.4e9", cfg.Models.FSPL.FrequencyHz)
	}
	if cfg.Models.TwoRay.TxHeightM != 12 {
		t.Errorf("tx height = %v, want 12", cfg.Models.TwoRay.TxHeightM)
	}
}

func TestLoadSessionSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SESSION_SECRET", "")

	first, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !first.Server.SessionSecretGenerated || len(first.Server.SessionSecret) != 64 {
		t.Fatalf("generated secret = %q (%v), want 64 hex chars", first.Server.SessionSecret, first.Server.SessionSecretGenerated)
	}
	if first.Server.SessionSecret == second.Server.SessionSecret {
		t.Fatalf("generated secrets should differ between loads")
	}

	t.Setenv("SESSION_SECRET", "from-env")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.SessionSecret != "from-env" || cfg.Server.SessionSecretGenerated {
		t.Fatalf("secret = %q (generated %v), want from-env", cfg.Server.SessionSecret, cfg.Server.SessionSecretGenerated)
	}
}

func TestLoadModelsFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "models.yaml")
	data := "models:\n  fspl:\n    frequency_hz: 9.0e8\n  two_ray:\n    rx_height_m: 1.5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("MODELS_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Models.FSPL.FrequencyHz != 9e8 {
		t.Errorf("frequency = %v, want 9e8", cfg.Models.FSPL.FrequencyHz)
	}
	if cfg.Models.FSPL.OffsetDB != 30 {
		t.Errorf("offset = %v, want untouched default 30", cfg.Models.FSPL.OffsetDB)
	}
	if cfg.Models.TwoRay.RxHeightM != 1.5 || cfg.Models.TwoRay.TxHeightM != 8 {
		t.Errorf("two-ray = %+v, want rx 1.5 and tx 8", cfg.Models.TwoRay)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"DISTANCE_METHOD":    "manhattan",
		"MODEL_FREQUENCY_HZ": "0",
		"MODEL_RX_HEIGHT_M":  "-1",
		"CHART_WIDTH":        "0",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, value)
			_, err := Load()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("err = %v, want *ConfigError", err)
			}
		})
	}
}
