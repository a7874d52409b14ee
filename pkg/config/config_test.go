package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("ORDER_GATEWAYS", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("CHECKOUT_TTL", "")

	cfg := Load()
	if cfg.HTTPPort != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.HTTPPort)
	}
	if !reflect.DeepEqual(cfg.OrderGateways, []string{"service"}) {
		t.Fatalf("unexpected gateways %v", cfg.OrderGateways)
	}
	if cfg.KafkaBrokers != nil {
		t.Fatalf("expected no brokers, got %v", cfg.KafkaBrokers)
	}
	if cfg.CheckoutTTL != 24*time.Hour {
		t.Fatalf("expected 24h checkout ttl, got %s", cfg.CheckoutTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("ORDER_GATEWAYS", "http, rpc ,,service")
	t.Setenv("CART_TTL", "2h")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	if cfg.HTTPPort != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
	}
	if !reflect.DeepEqual(cfg.OrderGateways, []string{"http", "rpc", "service"}) {
		t.Fatalf("unexpected gateways %v", cfg.OrderGateways)
	}
	if cfg.CartTTL != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %s", cfg.CartTTL)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("bad int should fall back to default, got %d", cfg.RedisDB)
	}
}

func TestLoadMailer(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ZEPTOMAIL_API_KEY", "key")

	cfg := LoadMailer()
	if cfg.Port != 3001 {
		t.Fatalf("expected 3001, got %d", cfg.Port)
	}
	if cfg.AdminEmail != "911clothings@gmail.com" {
		t.Fatalf("unexpected admin mailbox %q", cfg.AdminEmail)
	}
	if cfg.ZeptoMailAPIKey != "key" {
		t.Fatalf("api key not read")
	}
}
