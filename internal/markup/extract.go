package markup

import (
	"regexp"
	"strings"
)

var bracketRe = regexp.MustCompile(`<([^<>]+)>`)

// ExtractURLs returns the URL portion of every bracketed link token in
// first-occurrence order, duplicates preserved. Labels are discarded;
// mention tokens carry no URL and are skipped.
func ExtractURLs(text string) []string {
	var urls []string
	for _, m := range bracketRe.FindAllStringSubmatch(text, -1) {
		body := m[1]
		if strings.HasPrefix(body, "@") || strings.HasPrefix(body, "#") {
			continue
		}
		if i := strings.IndexByte(body, '|'); i >= 0 {
			body = body[:i]
		}
		urls = append(urls, body)
	}
	return urls
}
