package config

import (
	"os"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port == "" || cfg.MongoDB.Database == "" {
		t.Fatalf("unexpected empty defaults: %+v", cfg)
	}
	if cfg.Risk.StepTimeThresholdSeconds != 120 || cfg.Risk.StepTimeWeight != 0.3 {
		t.Fatalf("risk defaults not applied: %+v", cfg.Risk)
	}
	if cfg.Risk.HighTier != 0.7 || cfg.Risk.MediumTier != 0.5 {
		t.Fatalf("risk tiers not applied: %+v", cfg.Risk)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("RISK_FAILURE_THRESHOLD", "5")
	defer func() {
		os.Unsetenv("REDIS_HOST")
		os.Unsetenv("REDIS_PORT")
		os.Unsetenv("RISK_FAILURE_THRESHOLD")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Redis.Host != "localhost" {
		t.Fatalf("redis host = %q", cfg.Redis.Host)
	}
	if cfg.Risk.FailureThreshold != 5 {
		t.Fatalf("risk override not applied: %+v", cfg.Risk)
	}
}
