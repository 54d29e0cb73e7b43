package assistant

import "strings"

// ResolveCredential prefers the explicit key and falls back to the process-wide default.
func ResolveCredential(explicit, fallback string) (string, error) {
	if key := strings.TrimSpace(explicit); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(fallback); key != "" {
		return key, nil
	}
	return "", ErrMissingCredential
}
