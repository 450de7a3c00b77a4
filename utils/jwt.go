package utils

import (
	"strings"
)

// ExtractTokenFromHeader pulls the bearer token out of an Authorization
// header value. Returns an empty string when the header is missing or not
// in "Bearer <token>" form.
func ExtractTokenFromHeader(authHeader string) string {
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
