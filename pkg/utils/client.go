package utils

import (
	"fmt"

	"github.com/mssola/useragent"
)

// DescribeClient turns a User-Agent header into "Browser version (OS)" for
// session records. Bots and empty headers yield "".
func DescribeClient(header string) string {
	if header == "" {
		return ""
	}

	ua := useragent.New(header)
	if ua.Bot() {
		return ""
	}

	name, version := ua.Browser()
	if name == "" {
		return ""
	}
	if os := ua.OS(); os != "" {
		return fmt.Sprintf("%s %s (%s)", name, version, os)
	}
	return fmt.Sprintf("%s %s", name, version)
}
