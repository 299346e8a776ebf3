package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

var (
	// Local frontend dev servers, always allowed
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	// AllowedOrigins is the CORS origin list: the dev defaults plus the
	// comma-separated ALLOWED_ORIGINS env variable.
	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
