package utils

import (
	"regexp"
	"strings"
)

var (
	driveFilePath = regexp.MustCompile(`/file/d/([^/]+)`)
	driveOpenID   = regexp.MustCompile(`open\?id=([^&]+)`)
)

// NormalizeDriveURL rewrites a Google Drive share link into the direct-view
// form that can be hotlinked from an <img> tag:
//
//	https://drive.google.com/uc?export=view&id=<ID>
//
// Handled shapes, first match wins:
//  1. .../file/d/<ID>/...      -> rewritten
//  2. ...uc?export=view&id=... -> already normalized, returned as-is
//  3. ...open?id=<ID>[&...]    -> rewritten
//
// Anything else, including non-Drive URLs, is returned unchanged.
func NormalizeDriveURL(url string) string {
	if url == "" || !strings.Contains(url, "drive.google.com") {
		return url
	}

	if strings.Contains(url, "/file/d/") {
		if m := driveFilePath.FindStringSubmatch(url); len(m) == 2 && m[1] != "" {
			return "https://drive.google.com/uc?export=view&id=" + m[1]
		}
	}

	if strings.Contains(url, "uc?export=view&id=") {
		return url
	}

	if strings.Contains(url, "open?id=") {
		if m := driveOpenID.FindStringSubmatch(url); len(m) == 2 && m[1] != "" {
			return "https://drive.google.com/uc?export=view&id=" + m[1]
		}
	}

	return url
}
