package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDecodeDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode defaults failed: %v", err)
	}
	if cfg.Offer.DefaultStatus != "active" {
		t.Fatalf("default status want active got %s", cfg.Offer.DefaultStatus)
	}
	if cfg.Offer.DefaultLimit != 50 || cfg.Offer.MaxLimit != 200 {
		t.Fatalf("unexpected offer limits: %+v", cfg.Offer)
	}
	if cfg.Security.PasswordPolicy.MinLength != 6 {
		t.Fatalf("password min length want 6 got %d", cfg.Security.PasswordPolicy.MinLength)
	}
	if cfg.Offer.StoreTimeout() != 3*time.Second {
		t.Fatalf("store timeout want 3s got %s", cfg.Offer.StoreTimeout())
	}
	if cfg.Offer.PublicFeedTTL() != 30*time.Second {
		t.Fatalf("public feed ttl want 30s got %s", cfg.Offer.PublicFeedTTL())
	}
}

func TestDecodeNormalizesDefaultStatus(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("offer.default_status", "  DRAFT ")

	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Offer.DefaultStatus != "draft" {
		t.Fatalf("default status want draft got %q", cfg.Offer.DefaultStatus)
	}
}

func TestOfferConfigFallbacks(t *testing.T) {
	cfg := OfferConfig{}
	if cfg.StoreTimeout() != 3*time.Second {
		t.Fatalf("zero timeout should fall back to 3s, got %s", cfg.StoreTimeout())
	}
	if cfg.PublicFeedTTL() != 0 {
		t.Fatalf("zero cache seconds should disable cache, got %s", cfg.PublicFeedTTL())
	}
}

func TestValidate(t *testing.T) {
	strong := "0123456789abcdef0123456789abcdef"
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "debug weak secret allowed", cfg: Config{Server: ServerConfig{Mode: "debug"}, JWT: JWTConfig{SecretKey: "change-me"}}},
		{name: "release weak secret", cfg: Config{Server: ServerConfig{Mode: "release"}, JWT: JWTConfig{SecretKey: "change-me-in-production-change-me-in"}}, wantErr: true},
		{name: "release strong secret", cfg: Config{Server: ServerConfig{Mode: "release"}, JWT: JWTConfig{SecretKey: strong}}},
		{name: "bad default status", cfg: Config{Offer: OfferConfig{DefaultStatus: "paused"}}, wantErr: true},
		{name: "bad driver", cfg: Config{Database: DatabaseConfig{Driver: "mysql"}}, wantErr: true},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: wantErr=%v got %v", tc.name, tc.wantErr, err)
		}
	}
}
