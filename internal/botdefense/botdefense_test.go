package botdefense

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	browserUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
	clientIP  = "192.0.2.1"
)

type fakeResolver struct {
	names map[string][]string
	hosts map[string][]string
}

func (r *fakeResolver) LookupAddr(_ context.Context, addr string) ([]string, error) {
	if names, ok := r.names[addr]; ok {
		return names, nil
	}
	return nil, errors.New("no PTR record")
}

func (r *fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if addrs, ok := r.hosts[host]; ok {
		return addrs, nil
	}
	return nil, errors.New("no such host")
}

type crawl struct {
	path  string
	model string
}

type fakeReporter struct {
	crawls []crawl
}

func (r *fakeReporter) RecordCrawl(_ context.Context, path, model string) error {
	r.crawls = append(r.crawls, crawl{path, model})
	return nil
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.TarpitDuration = 5 * time.Millisecond
	cfg.TarpitChunkDelay = time.Millisecond
	return cfg
}

type harness struct {
	router   *gin.Engine
	mr       *miniredis.Miniredis
	reporter *fakeReporter
	served   int
}

func newHarness(t *testing.T, cfg *Config, resolver Resolver) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	h := &harness{mr: mr, reporter: &fakeReporter{}}

	defense := New(cfg, NewStore(client, cfg)).WithCrawlReporter(h.reporter)
	if resolver != nil {
		defense.WithVerifier(NewCrawlerVerifierWithResolver(cfg.VerifiedCrawlerDomains, resolver))
	}

	h.router = gin.New()
	h.router.Use(defense.Middleware())

	serve := func(c *gin.Context) {
		h.served++
		c.String(http.StatusOK, "ok")
	}
	h.router.GET("/health", serve)
	h.router.GET("/api/v1/ping", serve)
	h.router.GET("/uploads/:name", func(c *gin.Context) {
		if c.Param("name") == "missing.png" {
			c.Status(http.StatusNotFound)
			return
		}
		serve(c)
	})

	return h
}

func (h *harness) get(path, userAgent string, browser bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = clientIP + ":4242"
	req.Header.Set("User-Agent", userAgent)

	if browser {
		req.Header.Set("Accept", "image/png")
		req.Header.Set("Accept-Language", "en-US")
		req.Header.Set("Accept-Encoding", "gzip")
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestMiddleware_ExemptAndUnguardedPathsPass(t *testing.T) {
	h := newHarness(t, testConfig(), nil)

	assert.Equal(t, http.StatusOK, h.get("/health", "curl/8.0", false).Code)
	assert.Equal(t, http.StatusOK, h.get("/api/v1/ping", "curl/8.0", false).Code)
	assert.Equal(t, 2, h.served)
	assert.False(t, h.mr.Exists("botdefense:trapped:"+clientIP))
}

func TestMiddleware_HoneypotTraps(t *testing.T) {
	h := newHarness(t, testConfig(), nil)

	h.get("/.env", browserUA, true)

	reason, err := h.mr.Get("botdefense:trapped:" + clientIP)
	require.NoError(t, err)
	assert.Equal(t, string(ReasonHoneypot), reason)

	// once trapped, even browser-looking requests are not served
	h.get("/api/v1/ping", browserUA, true)
	assert.Equal(t, 0, h.served)
}

func TestMiddleware_AICrawlerIsBilled(t *testing.T) {
	h := newHarness(t, testConfig(), nil)

	w := h.get("/uploads/frame.png", "Mozilla/5.0 AppleWebKit/537.36 (KHTML, like Gecko; compatible; GPTBot/1.1; +https://openai.com/gptbot)", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []crawl{{"/uploads/frame.png", "openai"}}, h.reporter.crawls)

	// a miss is not billed
	w = h.get("/uploads/missing.png", "ClaudeBot/1.0", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, h.reporter.crawls, 1)
}

func TestMiddleware_ScraperOnUploadsIsTrapped(t *testing.T) {
	h := newHarness(t, testConfig(), nil)

	h.get("/uploads/frame.png", "python-requests/2.31", false)

	assert.Equal(t, 0, h.served)
	assert.True(t, h.mr.Exists("botdefense:trapped:"+clientIP))
}

func TestMiddleware_BrowserOnUploadsPasses(t *testing.T) {
	h := newHarness(t, testConfig(), nil)

	w := h.get("/uploads/frame.png", browserUA, true)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, h.served)
	assert.Empty(t, h.reporter.crawls)
}

func TestMiddleware_SearchCrawlerVerification(t *testing.T) {
	googlebot := "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"

	t.Run("verified", func(t *testing.T) {
		resolver := &fakeResolver{
			names: map[string][]string{clientIP: {"crawl-192-0-2-1.googlebot.com."}},
			hosts: map[string][]string{"crawl-192-0-2-1.googlebot.com": {clientIP}},
		}
		h := newHarness(t, testConfig(), resolver)

		assert.Equal(t, http.StatusOK, h.get("/uploads/frame.png", googlebot, false).Code)
		assert.Equal(t, 1, h.served)
	})

	t.Run("spoofed", func(t *testing.T) {
		h := newHarness(t, testConfig(), &fakeResolver{})

		h.get("/uploads/frame.png", googlebot, false)
		assert.Equal(t, 0, h.served)
		assert.True(t, h.mr.Exists("botdefense:trapped:"+clientIP))
	})
}

func TestMiddleware_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 2
	h := newHarness(t, cfg, nil)

	assert.Equal(t, http.StatusOK, h.get("/uploads/a.png", browserUA, true).Code)
	assert.Equal(t, http.StatusOK, h.get("/uploads/b.png", browserUA, true).Code)

	w := h.get("/uploads/c.png", browserUA, true)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestMiddleware_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	h := newHarness(t, cfg, nil)

	assert.Equal(t, http.StatusOK, h.get("/uploads/frame.png", "curl/8.0", false).Code)
}

func TestDetectBot(t *testing.T) {
	tests := []struct {
		name    string
		ua      string
		browser bool
		isBot   bool
	}{
		{"empty user agent", "", false, true},
		{"curl", "curl/8.4.0", false, true},
		{"go client", "Go-http-client/1.1", true, true},
		{"browser with headers", browserUA, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/uploads/x.png", nil)
			req.Header.Set("User-Agent", tt.ua)
			if tt.browser {
				req.Header.Set("Accept", "*/*")
				req.Header.Set("Accept-Language", "en")
				req.Header.Set("Accept-Encoding", "gzip")
			}

			signals := DetectBot(req)
			assert.Equal(t, tt.isBot, signals.Score >= BotScoreThreshold, "score %d", signals.Score)
		})
	}
}

func TestAICrawler(t *testing.T) {
	model, ok := AICrawler("Mozilla/5.0 (compatible; ClaudeBot/1.0; +claudebot@anthropic.com)")
	assert.True(t, ok)
	assert.Equal(t, "anthropic", model)

	model, ok = AICrawler("CCBot/2.0 (https://commoncrawl.org/faq/)")
	assert.True(t, ok)
	assert.Equal(t, "common-crawl", model)

	_, ok = AICrawler(browserUA)
	assert.False(t, ok)
}

func TestConfigPaths(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.IsHoneypotPath("/wp-admin/setup.php"))
	assert.False(t, cfg.IsHoneypotPath("/wp-administrator"))
	assert.True(t, cfg.IsExemptPath("/api/v1/scan/touches"))
	assert.True(t, cfg.IsGuardedPath("/uploads/a.png"))
	assert.False(t, cfg.IsGuardedPath("/uploadsx"))
	assert.True(t, IsSuspiciousPath("/uploads/../etc/passwd"))
}

func TestCrawlerVerifier_Cache(t *testing.T) {
	resolver := &fakeResolver{
		names: map[string][]string{clientIP: {"crawl.googlebot.com."}},
		hosts: map[string][]string{"crawl.googlebot.com": {clientIP}},
	}
	v := NewCrawlerVerifierWithResolver([]string{"googlebot.com"}, resolver)

	assert.True(t, v.IsVerifiedCrawler(context.Background(), clientIP))

	// the verdict is cached even after DNS changes
	resolver.names = nil
	assert.True(t, v.IsVerifiedCrawler(context.Background(), clientIP))

	v.CleanCache()
	assert.Len(t, v.cache, 1, "unexpired verdicts survive cleaning")
}

func TestCrawlerVerifier_ForwardMismatch(t *testing.T) {
	resolver := &fakeResolver{
		names: map[string][]string{clientIP: {"evil.googlebot.com.attacker.net."}},
		hosts: map[string][]string{"evil.googlebot.com.attacker.net": {clientIP}},
	}
	v := NewCrawlerVerifierWithResolver([]string{"googlebot.com"}, resolver)

	assert.False(t, v.IsVerifiedCrawler(context.Background(), clientIP))
}
