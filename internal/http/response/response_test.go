package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	StatusCode int                    `json:"status_code"`
	Msg        string                 `json:"msg"`
	Data       map[string]interface{} `json:"data"`
}

func newTestContext(requestID string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if requestID != "" {
		c.Set(RequestIDKey, requestID)
	}
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	if w.Code != 200 {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return resp
}

func TestErrorAttachesRequestID(t *testing.T) {
	c, w := newTestContext("req-1")
	Error(c, CodeNotFound, "not found")

	resp := decode(t, w)
	if resp.StatusCode != CodeNotFound || resp.Msg != "not found" {
		t.Fatalf("unexpected envelope %+v", resp)
	}
	if resp.Data["request_id"] != "req-1" {
		t.Fatalf("request_id want req-1 got %v", resp.Data["request_id"])
	}
}

func TestErrorWithoutRequestIDHasNullData(t *testing.T) {
	c, w := newTestContext("")
	BadRequest(c, "bad")
	if resp := decode(t, w); resp.Data != nil {
		t.Fatalf("data want null got %v", resp.Data)
	}
}

func TestFailMarksRetryableErrors(t *testing.T) {
	cases := []struct {
		code      int
		retryable bool
	}{
		{CodeServiceUnavailable, true},
		{CodeGatewayTimeout, true},
		{CodeNotFound, false},
	}
	for _, tc := range cases {
		c, w := newTestContext("req-2")
		appErr := NewError(tc.code, "failed", errors.New("cause"))
		Fail(c, appErr)

		resp := decode(t, w)
		if resp.StatusCode != tc.code {
			t.Fatalf("code want %d got %d", tc.code, resp.StatusCode)
		}
		_, has := resp.Data["retryable"]
		if has != tc.retryable {
			t.Fatalf("code %d retryable want %v got %v", tc.code, tc.retryable, has)
		}
		if !errors.Is(appErr, appErr.Err) || appErr.Error() != "failed: cause" {
			t.Fatalf("unexpected app error %v", appErr)
		}
	}
}
