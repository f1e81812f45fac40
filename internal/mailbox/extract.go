// internal/mailbox/extract.go
package mailbox

import (
	"regexp"
	"strings"

	stdhtml "html"

	"golang.org/x/net/html"
)

// DefaultLinkPatterns match the link shapes the target system sends.
// Activation and verification mails produce differently shaped URLs, so
// patterns are tried in order and the first capture wins.
var DefaultLinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)href="([^"]*activate[^"]*)"`),
	regexp.MustCompile(`(?i)href="([^"]*verify[^"]*)"`),
	regexp.MustCompile(`(?i)(https://[^\s<>"]*(?:activate|verify)[^\s<>"]*)`),
}

// ExtractLink normalizes HTML entities in the decoded body and applies the
// patterns in order. A pattern with a capture group yields the group;
// otherwise the raw match is returned. When no pattern matches, anchors in
// the parsed HTML are scanned as a last resort for hrefs containing
// "activate" or "verify".
func ExtractLink(body string, patterns []*regexp.Regexp) (string, bool) {
	normalized := stdhtml.UnescapeString(body)

	for _, pattern := range patterns {
		m := pattern.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}
		if len(m) > 1 && m[1] != "" {
			return m[1], true
		}
		return m[0], true
	}

	return anchorScan(normalized)
}

// anchorScan parses the body as HTML and returns the first anchor href
// that looks like an activation or verification link. Tolerant of the
// malformed markup some mailers produce; parse errors simply end the scan.
func anchorScan(body string) (string, bool) {
	tokenizer := html.NewTokenizer(strings.NewReader(body))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			if token.Data != "a" {
				continue
			}
			for _, attr := range token.Attr {
				if attr.Key != "href" {
					continue
				}
				href := strings.ToLower(attr.Val)
				if strings.Contains(href, "activate") || strings.Contains(href, "verify") {
					return attr.Val, true
				}
			}
		}
	}
}
