package search

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rmedved/concord/internal/model"
)

func proxyFor(t *testing.T, cfg *model.HTTPConfig, rawURL string) *url.URL {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, rawURL, nil)
	u, err := proxyFunc(cfg)(req)
	if err != nil {
		t.Fatalf("proxyFunc failed: %v", err)
	}
	return u
}

func TestProxyFunc_SchemeSelection(t *testing.T) {
	cfg := &model.HTTPConfig{
		HTTPProxy:  "http://plain.proxy:8080",
		HTTPSProxy: "http://secure.proxy:8443",
	}

	if got := proxyFor(t, cfg, "https://a.example/page"); got == nil || got.String() != "http://secure.proxy:8443" {
		t.Errorf("Expected HTTPS proxy for https request, got %v", got)
	}
	if got := proxyFor(t, cfg, "http://a.example/page"); got == nil || got.String() != "http://plain.proxy:8080" {
		t.Errorf("Expected HTTP proxy for http request, got %v", got)
	}
}

func TestProxyFunc_NoProxyBypassesConfiguredProxy(t *testing.T) {
	cfg := &model.HTTPConfig{
		HTTPProxy: "http://plain.proxy:8080",
		NoProxy:   "internal.example, other.test",
	}

	if got := proxyFor(t, cfg, "http://internal.example/page"); got != nil {
		t.Errorf("Expected direct connection for no_proxy host, got %v", got)
	}
	if got := proxyFor(t, cfg, "http://api.internal.example/page"); got != nil {
		t.Errorf("Expected direct connection for no_proxy subdomain, got %v", got)
	}
	if got := proxyFor(t, cfg, "http://external.example/page"); got == nil {
		t.Error("Expected proxy for host outside no_proxy list")
	}
}
