// Package markup rewrites Slack inline-markup tokens into the Markdown
// dialect understood by webhook destinations, and extracts raw URLs for
// destinations that do not render links.
package markup

import (
	"regexp"
	"strings"
)

// Rewrite order matters: later patterns must not re-match the output of
// earlier ones, so mentions and channel links are consumed before the
// generic label/bare link forms.
var (
	fenceRe   = regexp.MustCompile("```\n?")
	userRe    = regexp.MustCompile(`<@(\S+?)>`)
	channelRe = regexp.MustCompile(`<#(\S+?)\|(\S+?)>`)
	labeledRe = regexp.MustCompile(`<(\S+?)\|(\S+?)>`)
	bareRe    = regexp.MustCompile(`<(\S+?)>`)

	entities = strings.NewReplacer("&amp", "&", "&lt;", "<", "&gt;", ">")
)

// Translate rewrites Slack inline tokens to Markdown. It is deterministic,
// total, and never fails: malformed tokens (unbalanced brackets) pass
// through unmodified. The leading/trailing spaces around link rewrites are
// intentional so the result does not collide with adjacent text.
func Translate(text string) string {
	if text == "" {
		return ""
	}

	text = entities.Replace(text)

	// Slack allows ```code``` inline; Markdown needs a line break after
	// each fence marker. Normalizing to exactly one newline keeps the
	// transform idempotent.
	text = fenceRe.ReplaceAllString(text, "```\n")

	text = userRe.ReplaceAllString(text, "`@ $1`")
	text = channelRe.ReplaceAllString(text, "`#$2`")
	text = labeledRe.ReplaceAllString(text, " [$2]($1) ")
	text = bareRe.ReplaceAllString(text, " $1 ")

	return text
}
