package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-seating/internal/config"
	"github.com/iliyamo/bus-seating/internal/utils"
)

func staffEcho(secret string) *echo.Echo {
	e := echo.New()
	g := e.Group("/staff", JWTAuth(secret), RequireRole(utils.RoleStaff))
	g.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"staff_id": StaffID(c)})
	})
	return e
}

func TestJWTAuthAndRole(t *testing.T) {
	e := staffEcho("s3cret")

	do := func(auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/staff/me", nil)
		if auth != "" {
			req.Header.Set(echo.HeaderAuthorization, auth)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, do("").Code)
	assert.Equal(t, http.StatusUnauthorized, do("Bearer junk").Code)

	wrongRole, err := utils.NewAccessToken("s3cret", 5, "DRIVER", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do("Bearer "+wrongRole.Token).Code)

	staff, err := utils.NewAccessToken("s3cret", 5, utils.RoleStaff, time.Hour)
	require.NoError(t, err)
	rec := do("Bearer " + staff.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"staff_id":5}`, rec.Body.String())
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/claim/abc", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/claim/:token")
	c.SetParamNames("token")
	c.SetParamValues("abc")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_token"}
	key := buildRateKey(cfg, c)
	assert.Equal(t, "rl:ip:10.0.0.1:link:"+utils.HashToken("abc")[:16], key)
	assert.NotContains(t, key, "abc:")

	cfg.KeyStrategy = "ip_route"
	assert.Equal(t, "rl:ip:10.0.0.1:route:POST /v1/claim/:token", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user_route"
	assert.Equal(t, "rl:user:anon:route:POST /v1/claim/:token", buildRateKey(cfg, c))
	c.Set(CtxStaffID, uint64(9))
	assert.Equal(t, "rl:user:9:route:POST /v1/claim/:token", buildRateKey(cfg, c))
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(999))
	assert.Equal(t, 3, retryAfterSeconds(2001))
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	e := echo.New()
	e.GET("/x",
		func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil),
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
	)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, got)
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
	_, _, _, ok = decodePayload(append([]byte{0, 0, 0, 200, 0, 0, 1, 0}, 'x'))
	assert.False(t, ok)
}

func TestCacheKeyFrom(t *testing.T) {
	e := echo.New()
	mk := func(url string) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, url, nil), httptest.NewRecorder())
		c.SetPath("/v1/layouts/preview")
		return c
	}
	cfg := config.CacheConfig{Prefix: "cache:preview"}
	a := cacheKeyFrom(cfg, mk("/v1/layouts/preview?rows=13"))
	b := cacheKeyFrom(cfg, mk("/v1/layouts/preview?rows=14"))
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "cache:preview:"))

	cfg.KeyStrategy = "route"
	assert.Equal(t, cacheKeyFrom(cfg, mk("/v1/layouts/preview?rows=13")), cacheKeyFrom(cfg, mk("/v1/layouts/preview?rows=14")))
}

func TestCaptureWriterTruncates(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.truncated)
	_, _ = cw.Write([]byte("de"))
	assert.True(t, cw.truncated)
	assert.Equal(t, "abcde", rec.Body.String())
}
