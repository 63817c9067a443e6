package search

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rmedved/concord/internal/model"
)

// proxyFunc builds the transport proxy function from the HTTP config,
// falling back to the standard environment variables when the config sets
// no explicit proxy. Hosts listed in NoProxy (and their subdomains) bypass
// the configured proxies.
func proxyFunc(cfg *model.HTTPConfig) func(*http.Request) (*url.URL, error) {
	if cfg == nil || (cfg.HTTPProxy == "" && cfg.HTTPSProxy == "") {
		return http.ProxyFromEnvironment
	}

	var skip []string
	for _, h := range strings.Split(cfg.NoProxy, ",") {
		if h = strings.TrimSpace(h); h != "" {
			skip = append(skip, strings.ToLower(h))
		}
	}

	httpProxy, httpsProxy := cfg.HTTPProxy, cfg.HTTPSProxy
	return func(req *http.Request) (*url.URL, error) {
		host := strings.ToLower(req.URL.Hostname())
		for _, s := range skip {
			if host == s || strings.HasSuffix(host, "."+s) {
				return nil, nil
			}
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
