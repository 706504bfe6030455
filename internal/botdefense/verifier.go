package botdefense

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"
)

const verifiedCacheTTL = time.Hour

// is the DNS surface the verifier needs; *net.Resolver satisfies it
type Resolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

type verdict struct {
	verified bool
	expires  time.Time
}

// confirms crawler claims with reverse then forward DNS
type CrawlerVerifier struct {
	domains  []string
	resolver Resolver

	mu    sync.Mutex
	cache map[string]verdict
}

func NewCrawlerVerifier(domains []string) *CrawlerVerifier {
	return NewCrawlerVerifierWithResolver(domains, net.DefaultResolver)
}

func NewCrawlerVerifierWithResolver(domains []string, resolver Resolver) *CrawlerVerifier {
	return &CrawlerVerifier{
		domains:  domains,
		resolver: resolver,
		cache:    make(map[string]verdict),
	}
}

// reports whether ip reverse-resolves into a crawler domain that resolves back to ip
func (v *CrawlerVerifier) IsVerifiedCrawler(ctx context.Context, ip string) bool {
	v.mu.Lock()
	if cached, ok := v.cache[ip]; ok && time.Now().Before(cached.expires) {
		v.mu.Unlock()
		return cached.verified
	}
	v.mu.Unlock()

	verified := v.lookup(ctx, ip)

	v.mu.Lock()
	v.cache[ip] = verdict{verified: verified, expires: time.Now().Add(verifiedCacheTTL)}
	v.mu.Unlock()

	return verified
}

func (v *CrawlerVerifier) lookup(ctx context.Context, ip string) bool {
	names, err := v.resolver.LookupAddr(ctx, ip)
	if err != nil {
		return false
	}

	for _, name := range names {
		host := strings.TrimSuffix(strings.ToLower(name), ".")
		if !v.allowed(host) {
			continue
		}

		addrs, err := v.resolver.LookupHost(ctx, host)
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if addr == ip {
				return true
			}
		}
	}

	return false
}

func (v *CrawlerVerifier) allowed(host string) bool {
	for _, d := range v.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// drops expired verdicts
func (v *CrawlerVerifier) CleanCache() {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	for ip, cached := range v.cache {
		if now.After(cached.expires) {
			delete(v.cache, ip)
		}
	}
}
