package ratelimit

import (
	"net/http"
	"strings"
)

// unlimitedPaths are liveness probes that are never limited.
var unlimitedPaths = map[string]bool{
	"/health": true,
	"/test":   true,
}

var unlimited = &EndpointConfig{}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Path matching supports prefix matching (e.g., "/api/" matches "/api/language").
// CORS preflights and liveness probes match an unlimited config.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodOptions || (method == http.MethodGet && unlimitedPaths[path]) {
		return unlimited
	}

	path = strings.TrimSuffix(path, "/")
	if path == "" {
		path = "/"
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	var best *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if config.Method != method || !strings.HasSuffix(config.Path, "/") {
			continue
		}
		if strings.HasPrefix(path+"/", config.Path) && (best == nil || len(config.Path) > len(best.Path)) {
			best = config
		}
	}
	return best
}
