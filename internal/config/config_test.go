package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
store:
  driver: postgres
  dsn: "host=localhost user=club dbname=club"
auth:
  provider: local
  local-secret: dev
kafka:
  brokers: ["k1:9092", "k2:9092"]
redis:
  lock-ttl: 3s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != "postgres" || cfg.Auth.LocalSecret != "dev" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Server.Addr != ":8080" || cfg.Payments.Currency != "usd" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Redis.LockTTL != 3*time.Second {
		t.Fatalf("kafka/redis = %+v %+v", cfg.Kafka, cfg.Redis)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
auth:
  provider: local
  local-secret: dev
`)
	t.Setenv("CLUBSPHERE_SERVER_ADDR", ":9999")
	t.Setenv("CLUBSPHERE_AUTH_LOCAL_SECRET", "from-env")
	t.Setenv("CLUBSPHERE_KAFKA_BROKERS", "a:1,b:2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" || cfg.Auth.LocalSecret != "from-env" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:2" {
		t.Fatalf("brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"unknown driver":      "store:\n  driver: sqlite\nauth:\n  provider: local\n  local-secret: x\n",
		"firebase no project": "auth:\n  provider: firebase\n",
		"local no secret":     "auth:\n  provider: local\n",
		"unknown provider":    "auth:\n  provider: saml\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatal("Load: want validation error")
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load: want error for a missing explicit file")
	}
}
