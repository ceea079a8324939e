package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"messageId":"m1"}`)

	tests := []struct {
		name   string
		secret string
		header string
		want   bool
	}{
		{"valid", "topsecret", sign("topsecret", body), true},
		{"uppercase hex accepted", "topsecret", "sha256=" + strings.ToUpper(strings.TrimPrefix(sign("topsecret", body), "sha256=")), true},
		{"wrong secret", "topsecret", sign("other", body), false},
		{"missing prefix", "topsecret", strings.TrimPrefix(sign("topsecret", body), "sha256="), false},
		{"empty header", "topsecret", "", false},
		{"empty secret", "", sign("", body), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifySignature(tt.secret, body, tt.header); got != tt.want {
				t.Errorf("VerifySignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignatureMiddlewareRestoresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const secret = "topsecret"
	body := `{"messageId":"m1","from":"+528112345678"}`

	router := gin.New()
	router.POST("/webhook", SignatureMiddleware(secret), func(c *gin.Context) {
		var payload struct {
			MessageID string `json:"messageId"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"messageId": payload.MessageID})
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set(signatureHeader, sign(secret, []byte(body)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "m1") {
		t.Errorf("handler did not see the restored body: %s", rec.Body.String())
	}
}

func TestSignatureMiddlewareRejectsTamperedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const secret = "topsecret"

	router := gin.New()
	router.POST("/webhook", SignatureMiddleware(secret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"messageId":"forged"}`))
	req.Header.Set(signatureHeader, sign(secret, []byte(`{"messageId":"m1"}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
