package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.TokenIssuer != "lsg-access" {
		t.Errorf("TokenIssuer = %q, want %q", cfg.TokenIssuer, "lsg-access")
	}
	if cfg.TokenTTL != "90m" {
		t.Errorf("TokenTTL = %q, want %q", cfg.TokenTTL, "90m")
	}
	if cfg.JoinLeadTime != "30m" {
		t.Errorf("JoinLeadTime = %q, want %q", cfg.JoinLeadTime, "30m")
	}
	if cfg.JoinGracePeriod != "0s" {
		t.Errorf("JoinGracePeriod = %q, want %q", cfg.JoinGracePeriod, "0s")
	}
	if cfg.AbuseDenialThreshold != 10 {
		t.Errorf("AbuseDenialThreshold = %d, want 10", cfg.AbuseDenialThreshold)
	}
	if cfg.TelemetryKafkaTopic != "lsg-access-events" {
		t.Errorf("TelemetryKafkaTopic = %q, want default", cfg.TelemetryKafkaTopic)
	}
	if cfg.KafkaGroupID != "lsg-telemetry-worker" {
		t.Errorf("KafkaGroupID = %q, want default", cfg.KafkaGroupID)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("TOKEN_TTL", "45m")
	os.Setenv("JOIN_LEAD_TIME", "15m")
	os.Setenv("ABUSE_DENIAL_THRESHOLD", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if got := cfg.TokenTTLDuration(); got != 45*time.Minute {
		t.Errorf("TokenTTLDuration = %v, want 45m", got)
	}
	if got := cfg.JoinLead(); got != 15*time.Minute {
		t.Errorf("JoinLead = %v, want 15m", got)
	}
	if cfg.AbuseDenialThreshold != 3 {
		t.Errorf("AbuseDenialThreshold = %d, want 3", cfg.AbuseDenialThreshold)
	}
}

func TestLoad_InvalidThreshold(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("ABUSE_DENIAL_THRESHOLD", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail for negative ABUSE_DENIAL_THRESHOLD")
	}
}

func TestDurationAccessors_Fallbacks(t *testing.T) {
	cfg := &Config{TokenTTL: "bogus", JoinLeadTime: "", JoinGracePeriod: "oops", AbuseWindow: "-5m"}
	if got := cfg.TokenTTLDuration(); got != 90*time.Minute {
		t.Errorf("TokenTTLDuration fallback = %v, want 90m", got)
	}
	if got := cfg.JoinLead(); got != 30*time.Minute {
		t.Errorf("JoinLead fallback = %v, want 30m", got)
	}
	if got := cfg.JoinGrace(); got != 0 {
		t.Errorf("JoinGrace fallback = %v, want 0", got)
	}
	if got := cfg.AbuseWindowDuration(); got != 60*time.Minute {
		t.Errorf("AbuseWindowDuration fallback = %v, want 60m", got)
	}
}

func TestTelemetryKafkaBrokersList(t *testing.T) {
	cfg := &Config{TelemetryKafkaBrokers: "localhost:9092, broker2:9092 ,"}
	got := cfg.TelemetryKafkaBrokersList()
	if len(got) != 2 || got[0] != "localhost:9092" || got[1] != "broker2:9092" {
		t.Errorf("TelemetryKafkaBrokersList = %v", got)
	}

	var nilCfg *Config
	if nilCfg.TelemetryKafkaBrokersList() != nil {
		t.Error("nil config should return nil broker list")
	}
}
