package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foody-next/internal/config"
	"github.com/foody-next/internal/constants"
	"github.com/foody-next/internal/models"
	"github.com/foody-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type routerFixture struct {
	engine *gin.Engine
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:router_%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		NowFunc: models.NowUTC,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{SecretKey: "router-test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 6},
		},
	}
	container := provider.NewContainer(cfg, db)
	return &routerFixture{engine: SetupRouter(cfg, container)}
}

func (f *routerFixture) do(t *testing.T, method, target string, body interface{}, headers map[string]string, dest interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s http status want 200 got %d", method, target, w.Code)
	}
	resp := decodeEnvelope(t, w)
	if dest != nil && resp.StatusCode == 0 {
		if err := json.Unmarshal(resp.Data, dest); err != nil {
			t.Fatalf("%s %s decode data failed: %v (%s)", method, target, err, resp.Data)
		}
	}
	return resp
}

type sessionData struct {
	RestaurantID uint   `json:"restaurant_id"`
	APIKey       string `json:"api_key"`
	AccessToken  string `json:"access_token"`
}

type offerData struct {
	ID              uint    `json:"id"`
	Title           string  `json:"title"`
	Price           string  `json:"price"`
	DiscountPercent *int    `json:"discount_percent"`
	OriginalPrice   *string `json:"original_price"`
	ExpiresAt       *string `json:"expires_at"`
	QtyTotal        int     `json:"qty_total"`
	QtyLeft         int     `json:"qty_left"`
	Status          string  `json:"status"`
}

func TestMerchantOfferLifecycleOverHTTP(t *testing.T) {
	f := newRouterFixture(t)

	var session sessionData
	resp := f.do(t, http.MethodPost, "/api/v1/merchant/register_public", gin.H{
		"name":     "Corner Bakery",
		"login":    "+7 900 000-00-01",
		"password": "secret1",
	}, nil, &session)
	if resp.StatusCode != 0 || session.RestaurantID == 0 || session.APIKey == "" {
		t.Fatalf("register failed: %d %s", resp.StatusCode, resp.Msg)
	}
	keyHeader := map[string]string{constants.MerchantAPIKeyHeader: session.APIKey}
	bearer := map[string]string{"Authorization": "Bearer " + session.AccessToken}
	rid := session.RestaurantID

	resp = f.do(t, http.MethodPost, "/api/v1/merchant/register_public", gin.H{
		"name": "Copy", "login": "79000000001", "password": "secret1",
	}, nil, nil)
	if resp.StatusCode != 409 {
		t.Fatalf("duplicate register want 409 got %d", resp.StatusCode)
	}

	var created struct {
		ID uint `json:"id"`
	}
	resp = f.do(t, http.MethodPost, "/api/v1/merchant/offers", gin.H{
		"restaurant_id":  rid,
		"title":          "Pastry box",
		"price":          "75.00",
		"original_price": 100,
		"qty_total":      3,
		"expires_at":     "2099-01-01 10:00",
	}, keyHeader, &created)
	if resp.StatusCode != 0 || created.ID == 0 {
		t.Fatalf("create offer failed: %d %s", resp.StatusCode, resp.Msg)
	}

	resp = f.do(t, http.MethodPost, "/api/v1/merchant/offers", gin.H{"restaurant_id": rid, "title": " ", "price": 1}, keyHeader, nil)
	if resp.StatusCode != 400 {
		t.Fatalf("blank title want 400 got %d", resp.StatusCode)
	}

	var list struct {
		Items []offerData `json:"items"`
		Page  int         `json:"page"`
		Limit int         `json:"limit"`
		Total *int64      `json:"total"`
	}
	resp = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/merchant/offers?restaurant_id=%d&q=pastry", rid), nil, keyHeader, &list)
	if resp.StatusCode != 0 || len(list.Items) != 1 {
		t.Fatalf("list offers failed: %d %s %+v", resp.StatusCode, resp.Msg, list.Items)
	}
	item := list.Items[0]
	if item.DiscountPercent == nil || *item.DiscountPercent != 25 || item.Price != "75.00" || item.QtyLeft != 3 {
		t.Fatalf("unexpected offer view %+v", item)
	}
	if list.Total != nil || list.Limit != 50 || list.Page != 1 {
		t.Fatalf("unexpected list meta page=%d limit=%d total=%v", list.Page, list.Limit, list.Total)
	}

	var feed []offerData
	resp = f.do(t, http.MethodGet, "/api/v1/public/offers", nil, nil, &feed)
	if resp.StatusCode != 0 || len(feed) != 1 {
		t.Fatalf("public feed want 1 item got %d (%d)", len(feed), resp.StatusCode)
	}

	var paused offerData
	resp = f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/merchant/offers/%d/pause", created.ID), nil, bearer, &paused)
	if resp.StatusCode != 0 || paused.Status != constants.OfferStatusPaused {
		t.Fatalf("pause failed: %d %s %+v", resp.StatusCode, resp.Msg, paused)
	}

	var copied offerData
	resp = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/merchant/offers/%d/duplicate", created.ID), nil, bearer, &copied)
	if resp.StatusCode != 0 || copied.Status != constants.OfferStatusDraft || copied.ID == created.ID {
		t.Fatalf("duplicate failed: %d %s %+v", resp.StatusCode, resp.Msg, copied)
	}

	var updated struct {
		OK      bool `json:"ok"`
		Updated int  `json:"updated"`
	}
	resp = f.do(t, http.MethodPost, "/api/v1/merchant/offers/update", gin.H{
		"restaurant_id": rid,
		"id":            copied.ID,
		"title":         "Pastry box (copy)",
	}, keyHeader, &updated)
	if resp.StatusCode != 0 || !updated.OK || updated.Updated != 1 {
		t.Fatalf("legacy update failed: %d %s %+v", resp.StatusCode, resp.Msg, updated)
	}

	copyPath := fmt.Sprintf("/api/v1/merchant/offers/%d?restaurant_id=%d", copied.ID, rid)
	resp = f.do(t, http.MethodPatch, copyPath, gin.H{"original_price": nil, "expires_at": nil}, keyHeader, &updated)
	if resp.StatusCode != 0 || updated.Updated != 1 {
		t.Fatalf("null clear update failed: %d %s %+v", resp.StatusCode, resp.Msg, updated)
	}
	var cleared offerData
	resp = f.do(t, http.MethodGet, copyPath, nil, keyHeader, &cleared)
	if resp.StatusCode != 0 || cleared.OriginalPrice != nil || cleared.ExpiresAt != nil || cleared.DiscountPercent != nil {
		t.Fatalf("explicit null should clear original price and expiry, got %+v", cleared)
	}

	path := fmt.Sprintf("/api/v1/merchant/offers/%d?restaurant_id=%d", created.ID, rid)
	for i := 0; i < 2; i++ {
		var archived struct {
			OK bool `json:"ok"`
			ID uint `json:"id"`
		}
		resp = f.do(t, http.MethodDelete, path, nil, keyHeader, &archived)
		if resp.StatusCode != 0 || !archived.OK || archived.ID != created.ID {
			t.Fatalf("delete #%d failed: %d %s", i+1, resp.StatusCode, resp.Msg)
		}
	}
	resp = f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/merchant/offers/999999?restaurant_id=%d", rid), nil, keyHeader, nil)
	if resp.StatusCode != 404 {
		t.Fatalf("delete unknown want 404 got %d", resp.StatusCode)
	}

	var events []struct {
		Action string `json:"action"`
	}
	resp = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/merchant/offers/%d/events?restaurant_id=%d", created.ID, rid), nil, keyHeader, &events)
	if resp.StatusCode != 0 || len(events) != 3 {
		t.Fatalf("events want 3 (create, pause, archive) got %d (%d %s)", len(events), resp.StatusCode, resp.Msg)
	}
	if events[0].Action != constants.OfferEventArchive {
		t.Fatalf("latest event want archive got %s", events[0].Action)
	}
}

func TestMerchantProfileAndPasswordOverHTTP(t *testing.T) {
	f := newRouterFixture(t)

	var session sessionData
	f.do(t, http.MethodPost, "/api/v1/merchant/register_public", gin.H{
		"name": "Cafe", "login": "100200300", "password": "secret1", "city": "Kazan",
	}, nil, &session)
	if session.RestaurantID == 0 {
		t.Fatalf("register failed")
	}
	bearer := map[string]string{"Authorization": "Bearer " + session.AccessToken}

	var profile struct {
		City     *string `json:"city"`
		WorkFrom *string `json:"work_from"`
		WorkTo   *string `json:"work_to"`
	}
	resp := f.do(t, http.MethodPut, "/api/v1/merchant/profile", gin.H{"work_from": "8:30", "work_to": "24:00"}, bearer, &profile)
	if resp.StatusCode != 0 {
		t.Fatalf("update profile failed: %d %s", resp.StatusCode, resp.Msg)
	}
	if profile.WorkFrom == nil || *profile.WorkFrom != "08:30" || profile.WorkTo == nil || *profile.WorkTo != "23:59" {
		t.Fatalf("unexpected work hours %v / %v", profile.WorkFrom, profile.WorkTo)
	}

	resp = f.do(t, http.MethodPut, "/api/v1/merchant/password", gin.H{"old_password": "secret1", "new_password": "secret2"}, bearer, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("change password failed: %d %s", resp.StatusCode, resp.Msg)
	}
	resp = f.do(t, http.MethodGet, "/api/v1/merchant/profile", nil, bearer, nil)
	if resp.StatusCode != 401 || !strings.Contains(resp.Msg, "revoked") {
		t.Fatalf("old token want 401 revoked got %d %s", resp.StatusCode, resp.Msg)
	}

	var login sessionData
	resp = f.do(t, http.MethodPost, "/api/v1/merchant/login", gin.H{"login": "100200300", "password": "secret2"}, nil, &login)
	if resp.StatusCode != 0 || login.RestaurantID != session.RestaurantID {
		t.Fatalf("login failed: %d %s", resp.StatusCode, resp.Msg)
	}
	resp = f.do(t, http.MethodPost, "/api/v1/merchant/login", gin.H{"login": "100200300", "password": "secret1"}, nil, nil)
	if resp.StatusCode != 401 {
		t.Fatalf("old password login want 401 got %d", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := newRouterFixture(t)
	var data map[string]string
	resp := f.do(t, http.MethodGet, "/health", nil, nil, &data)
	if resp.StatusCode != 0 || data["database"] != "ok" || data["redis"] != "disabled" {
		t.Fatalf("health unexpected: %d %+v", resp.StatusCode, data)
	}
}

func TestUnauthenticatedPathsReturnSingleEnvelope(t *testing.T) {
	f := newRouterFixture(t)

	cases := []struct {
		name   string
		method string
		target string
		body   interface{}
		code   int
	}{
		{name: "public feed", method: http.MethodGet, target: "/api/v1/public/offers", code: 0},
		{name: "root", method: http.MethodGet, target: "/", code: 0},
		{name: "unknown login", method: http.MethodPost, target: "/api/v1/merchant/login", body: gin.H{"login": "79000000009", "password": "secret1"}, code: 401},
		{name: "missing credentials", method: http.MethodGet, target: "/api/v1/merchant/offers?restaurant_id=1", code: 401},
		{name: "bad api key", method: http.MethodGet, target: "/api/v1/merchant/offers?restaurant_id=1", code: 401},
	}
	for _, tc := range cases {
		headers := map[string]string(nil)
		if tc.name == "bad api key" {
			headers = map[string]string{constants.MerchantAPIKeyHeader: "nope"}
		}
		// do decodes the body strictly and fails on a trailing document
		resp := f.do(t, tc.method, tc.target, tc.body, headers, nil)
		if resp.StatusCode != tc.code {
			t.Fatalf("%s: status_code want %d got %d (%s)", tc.name, tc.code, resp.StatusCode, resp.Msg)
		}
	}
}
