package service

import (
	"context"
	"errors"
	"testing"

	"github.com/foody-next/internal/config"
	"github.com/foody-next/internal/repository"
)

func newMerchantAuthFixture(t *testing.T) (*MerchantAuthService, *MerchantService) {
	t.Helper()
	db := openServiceTestDB(t)
	cfg := &config.Config{
		JWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 6},
		},
	}
	repo := repository.NewMerchantRepository(db)
	return NewMerchantAuthService(cfg, repo), NewMerchantService(repo, cfg.Offer.StoreTimeout())
}

func TestMerchantRegisterAndLogin(t *testing.T) {
	auth, _ := newMerchantAuthFixture(t)
	ctx := context.Background()

	session, err := auth.Register(ctx, RegisterMerchantInput{
		Name:     "  Corner Bakery ",
		Login:    "+7 (900) 111-22-33",
		Password: "secret1",
		City:     "Moscow",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if session.RestaurantID == 0 || session.AccessToken == "" || session.ExpiresAt == "" {
		t.Fatalf("incomplete session %+v", session)
	}
	if len(session.APIKey) != 48 {
		t.Fatalf("api key length want 48 got %d", len(session.APIKey))
	}

	_, err = auth.Register(ctx, RegisterMerchantInput{Name: "Copy", Login: "79001112233", Password: "secret1"})
	if !errors.Is(err, ErrLoginExists) {
		t.Fatalf("duplicate login want ErrLoginExists got %v", err)
	}

	login, err := auth.Login(ctx, "7 900 111 22 33", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if login.RestaurantID != session.RestaurantID || login.APIKey != session.APIKey {
		t.Fatalf("login should return the registered merchant, got %+v", login)
	}

	if _, err := auth.Login(ctx, "79001112233", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, err := auth.Login(ctx, "70000000000", "secret1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unknown login want ErrUnauthorized got %v", err)
	}
}

func TestMerchantRegisterValidation(t *testing.T) {
	auth, _ := newMerchantAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterMerchantInput
		want  error
	}{
		{"blank name", RegisterMerchantInput{Name: " ", Login: "100", Password: "secret1"}, ErrMerchantNameRequired},
		{"no digits", RegisterMerchantInput{Name: "A", Login: "abc", Password: "secret1"}, ErrLoginRequired},
		{"empty password", RegisterMerchantInput{Name: "A", Login: "100"}, ErrPasswordRequired},
		{"short password", RegisterMerchantInput{Name: "A", Login: "100", Password: "123"}, ErrWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Register(ctx, tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v got %v", tc.want, err)
			}
		})
	}
}

func TestMerchantAuthenticate(t *testing.T) {
	auth, _ := newMerchantAuthFixture(t)
	ctx := context.Background()

	session, err := auth.Register(ctx, RegisterMerchantInput{Name: "Cafe", Login: "100200", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	rid := session.RestaurantID

	if err := auth.Authenticate(ctx, rid, session.APIKey); err != nil {
		t.Fatalf("api key auth failed: %v", err)
	}
	if err := auth.Authenticate(ctx, rid, session.AccessToken); err != nil {
		t.Fatalf("jwt auth failed: %v", err)
	}
	if err := auth.Authenticate(ctx, rid, "not-the-key"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("wrong key want ErrUnauthorized got %v", err)
	}
	if err := auth.Authenticate(ctx, rid+1, session.APIKey); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unknown tenant want ErrUnauthorized got %v", err)
	}
	if err := auth.Authenticate(ctx, rid, ""); !errors.Is(err, ErrCredentialRequired) {
		t.Fatalf("empty credential want ErrCredentialRequired got %v", err)
	}
	if err := auth.Authenticate(ctx, rid, "a.b.c"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage jwt want ErrInvalidToken got %v", err)
	}

	other, err := auth.Register(ctx, RegisterMerchantInput{Name: "Other", Login: "300400", Password: "secret1"})
	if err != nil {
		t.Fatalf("register other failed: %v", err)
	}
	if err := auth.Authenticate(ctx, rid, other.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign token want ErrInvalidToken got %v", err)
	}
}

func TestMerchantChangePasswordRevokesTokens(t *testing.T) {
	auth, _ := newMerchantAuthFixture(t)
	ctx := context.Background()

	session, err := auth.Register(ctx, RegisterMerchantInput{Name: "Cafe", Login: "555", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	rid := session.RestaurantID

	if err := auth.ChangePassword(ctx, rid, "wrong-old", "secret2"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("wrong old password want ErrInvalidPassword got %v", err)
	}
	if err := auth.ChangePassword(ctx, rid, "secret1", "123"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak password want ErrWeakPassword got %v", err)
	}
	if err := auth.ChangePassword(ctx, rid, "secret1", "secret2"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if err := auth.Authenticate(ctx, rid, session.AccessToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("old token want ErrTokenRevoked got %v", err)
	}
	if err := auth.Authenticate(ctx, rid, session.APIKey); err != nil {
		t.Fatalf("api key should survive password change: %v", err)
	}
	if _, err := auth.Login(ctx, "555", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password login want ErrInvalidCredentials got %v", err)
	}
	fresh, err := auth.Login(ctx, "555", "secret2")
	if err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if err := auth.Authenticate(ctx, rid, fresh.AccessToken); err != nil {
		t.Fatalf("fresh token auth failed: %v", err)
	}
	if err := auth.ChangePassword(ctx, rid+10, "x", "secret3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown merchant want ErrNotFound got %v", err)
	}
}

func TestMerchantProfile(t *testing.T) {
	auth, profiles := newMerchantAuthFixture(t)
	ctx := context.Background()

	session, err := auth.Register(ctx, RegisterMerchantInput{Name: "Cafe", Login: "8-800", Password: "secret1", City: "Kazan"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	rid := session.RestaurantID

	profile, err := profiles.GetProfile(ctx, rid)
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if profile.Phone == nil || *profile.Phone != "8800" {
		t.Fatalf("phone should default to login digits, got %v", profile.Phone)
	}
	if profile.City == nil || *profile.City != "Kazan" {
		t.Fatalf("city want Kazan got %v", profile.City)
	}

	lat := 55.79
	profile, err = profiles.UpdateProfile(ctx, rid, UpdateProfileInput{
		Name:      stringPtr("  "),
		Address:   stringPtr("Baumana 1"),
		Lat:       &lat,
		OpenTime:  stringPtr("9"),
		CloseTime: stringPtr("24:00"),
	})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if profile.Name != "Cafe" {
		t.Fatalf("blank name should be ignored, got %q", profile.Name)
	}
	if profile.Address == nil || *profile.Address != "Baumana 1" {
		t.Fatalf("address not applied: %v", profile.Address)
	}
	if profile.Lat == nil || *profile.Lat != lat {
		t.Fatalf("lat not applied: %v", profile.Lat)
	}
	if profile.OpenTime == nil || *profile.OpenTime != "09:00" || profile.WorkFrom == nil || *profile.WorkFrom != "09:00" {
		t.Fatalf("open time want 09:00 got %v / %v", profile.OpenTime, profile.WorkFrom)
	}
	if profile.CloseTime == nil || *profile.CloseTime != "23:59" {
		t.Fatalf("close time want 23:59 got %v", profile.CloseTime)
	}

	profile, err = profiles.UpdateProfile(ctx, rid, UpdateProfileInput{OpenTime: stringPtr("25:99")})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if profile.OpenTime == nil || *profile.OpenTime != "09:00" {
		t.Fatalf("invalid open time should be ignored, got %v", profile.OpenTime)
	}

	if _, err := profiles.GetProfile(ctx, rid+5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown merchant want ErrNotFound got %v", err)
	}
}

func TestParseWorkTime(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"9", "09:00:00", true},
		{"9:30", "09:30:00", true},
		{" 18:05:07 ", "18:05:07", true},
		{"24:00", "23:59:59", true},
		{"24:01", "", false},
		{"12:60", "", false},
		{"ab", "", false},
		{"", "", false},
		{"1:2:3:4", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseWorkTime(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseWorkTime(%q) want %q/%v got %q/%v", tc.raw, tc.want, tc.ok, got, ok)
		}
	}
}

func TestNormalizeLogin(t *testing.T) {
	if got := NormalizeLogin("+7 (912) 000-11-22"); got != "79120001122" {
		t.Fatalf("want 79120001122 got %s", got)
	}
	if got := NormalizeLogin("login"); got != "" {
		t.Fatalf("want empty got %s", got)
	}
}
