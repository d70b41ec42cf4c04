package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	TooManyRequests(c, 10004, "too many requests, please try again later")

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("期望 429，实际 %d", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp["code"] != float64(10004) {
		t.Errorf("期望 code=10004，实际 %v", resp["code"])
	}
	if _, ok := resp["details"]; ok {
		t.Errorf("期望不包含 details，实际 %v", resp)
	}
}
