package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aamadmin/pkg/cidr"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func webhookRequest(token, remoteAddr, forwardedFor string) *http.Request {
	url := "/api/v1/instances/webhook/brevo"
	if token != "" {
		url += "?token=" + token
	}
	req := httptest.NewRequest(http.MethodPost, url, nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	return req
}

func TestWebhookAuthTokenGate(t *testing.T) {
	guard := WebhookAuth("s3cret", nil, zap.NewNop().Sugar())(okHandler())

	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, webhookRequest("s3cret", "203.0.113.9:1234", ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, webhookRequest("wrong", "203.0.113.9:1234", ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, webhookRequest("", "203.0.113.9:1234", ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookAuthUnconfiguredSecretRejectsAll(t *testing.T) {
	guard := WebhookAuth("", nil, zap.NewNop().Sugar())(okHandler())
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, webhookRequest("", "203.0.113.9:1234", ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookAuthIPAllowlist(t *testing.T) {
	allowed, err := cidr.ParseList("10.0.0.0/24")
	require.NoError(t, err)
	guard := WebhookAuth("s3cret", allowed, zap.NewNop().Sugar())(okHandler())

	// correct token but IP outside the allowlist: rejected
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, webhookRequest("s3cret", "203.0.113.9:1234", ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, webhookRequest("s3cret", "10.0.0.5:1234", ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	// wrong token from an allowed IP still fails; token is checked first
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, webhookRequest("wrong", "10.0.0.5:1234", ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookAuthEmptyAllowlistAdmitsAnyIP(t *testing.T) {
	guard := WebhookAuth("s3cret", nil, zap.NewNop().Sugar())(okHandler())
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, webhookRequest("s3cret", "198.51.100.77:9999", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookAuthPrefersForwardedFor(t *testing.T) {
	allowed, err := cidr.ParseList("10.0.0.0/24")
	require.NoError(t, err)
	guard := WebhookAuth("s3cret", allowed, zap.NewNop().Sugar())(okHandler())

	// proxy peer is outside the allowlist, forwarded client is inside
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, webhookRequest("s3cret", "192.0.2.1:1234", "10.0.0.8, 192.0.2.1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	// forwarded client outside the allowlist
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, webhookRequest("s3cret", "10.0.0.8:1234", "203.0.113.4"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", ClientIP(req))

	req.Header.Set("X-Forwarded-For", " 10.1.2.3 , 192.0.2.1")
	assert.Equal(t, "10.1.2.3", ClientIP(req))
}
