package botdefense

import (
	"net/http"
	"strings"
)

// known bot user-agent patterns (case-insensitive matching)
var botPatterns = []string{
	// generic bot indicators
	"bot",
	"crawler",
	"spider",
	"scraper",
	// cli tools
	"curl",
	"wget",
	"httpie",
	// programming libraries
	"python-requests",
	"python-urllib",
	"go-http-client",
	"java",
	"node-fetch",
	"axios",
	"libwww",
	"okhttp",
	// headless browsers (when exposed)
	"headless",
	"puppeteer",
	"playwright",
	// specific scrapers
	"scrapy",
	"httrack",
	"mass-downloader",
}

// user-agent tokens of crawlers that collect training data, mapped to the model family they feed
var aiCrawlers = []struct {
	token string
	model string
}{
	{"gptbot", "openai"},
	{"chatgpt-user", "openai"},
	{"oai-searchbot", "openai"},
	{"claudebot", "anthropic"},
	{"claude-web", "anthropic"},
	{"anthropic-ai", "anthropic"},
	{"google-extended", "google"},
	{"ccbot", "common-crawl"},
	{"perplexitybot", "perplexity"},
	{"bytespider", "bytedance"},
	{"meta-externalagent", "meta"},
	{"applebot-extended", "apple"},
	{"cohere-ai", "cohere"},
	{"diffbot", "diffbot"},
}

// search engine crawlers that must pass reverse DNS verification
var searchCrawlers = []string{
	"googlebot",
	"bingbot",
	"applebot",
	"duckduckbot",
	"yandexbot",
}

// legitimate browser indicators
var browserIndicators = []string{
	"mozilla",
	"chrome",
	"safari",
	"firefox",
	"edge",
	"opera",
}

// contains detected bot indicators
type BotSignals struct {
	EmptyUserAgent    bool
	ShortUserAgent    bool
	BotPatternMatch   string
	MissingHeaders    []string
	SuspiciousHeaders []string
	Score             int
}

// analyzes a request for bot indicators
// returns signals and a score (higher = more likely bot)
func DetectBot(r *http.Request) *BotSignals {
	signals := &BotSignals{}
	userAgent := r.Header.Get("User-Agent")
	userAgentLower := strings.ToLower(userAgent)

	if userAgent == "" {
		signals.EmptyUserAgent = true
		signals.Score += 50
	} else if len(userAgent) < 20 {
		signals.ShortUserAgent = true
		signals.Score += 30
	}

	for _, pattern := range botPatterns {
		if strings.Contains(userAgentLower, pattern) {
			signals.BotPatternMatch = pattern
			signals.Score += 40
			break
		}
	}

	missingHeaders := []string{}

	for _, h := range []string{"Accept-Language", "Accept-Encoding", "Accept"} {
		if r.Header.Get(h) == "" {
			missingHeaders = append(missingHeaders, h)
			signals.Score += 10
		}
	}

	signals.MissingHeaders = missingHeaders

	suspiciousHeaders := []string{}

	// connection: close is often used by scripts
	if r.Header.Get("Connection") == "close" && !hasBrowserIndicator(userAgentLower) {
		suspiciousHeaders = append(suspiciousHeaders, "Connection: close without browser UA")
		signals.Score += 15
	}

	signals.SuspiciousHeaders = suspiciousHeaders

	// reduce score if it looks like a real browser
	if hasBrowserIndicator(userAgentLower) && len(missingHeaders) == 0 {
		signals.Score -= 20
		if signals.Score < 0 {
			signals.Score = 0
		}
	}

	return signals
}

// returns the model family of a self-identified AI training crawler
func AICrawler(userAgent string) (string, bool) {
	ua := strings.ToLower(userAgent)

	for _, c := range aiCrawlers {
		if strings.Contains(ua, c.token) {
			return c.model, true
		}
	}

	return "", false
}

// reports whether the user-agent claims to be a search crawler
func MightBeKnownCrawler(userAgent string) (bool, string) {
	ua := strings.ToLower(userAgent)

	for _, name := range searchCrawlers {
		if strings.Contains(ua, name) {
			return true, name
		}
	}

	return false, ""
}

func hasBrowserIndicator(userAgentLower string) bool {
	for _, indicator := range browserIndicators {
		if strings.Contains(userAgentLower, indicator) {
			return true
		}
	}
	return false
}

// checks if the request path looks like probing
func IsSuspiciousPath(path string) bool {
	pathLower := strings.ToLower(path)

	suspiciousPatterns := []string{
		".php",
		".asp",
		".jsp",
		".cgi",
		"..%2f", // path traversal
		"../",
		"%00", // null byte
		"<script",
		"union+select",
	}

	for _, pattern := range suspiciousPatterns {
		if strings.Contains(pathLower, pattern) {
			return true
		}
	}

	return false
}
