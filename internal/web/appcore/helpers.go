package appcore

import (
	"net/url"
	"strings"
	"time"

	"easyblog/internal/markdown"
	"easyblog/internal/posts"
)

var tagColors = map[string]struct{}{
	"gray":   {},
	"brown":  {},
	"orange": {},
	"yellow": {},
	"green":  {},
	"blue":   {},
	"purple": {},
	"pink":   {},
	"red":    {},
}

// TagClass returns the CSS classes of a tag badge. Unknown and "default"
// colors keep the plain badge styling.
func TagClass(color string) string {
	color = strings.ToLower(strings.TrimSpace(color))
	base, background := strings.CutSuffix(color, "_background")
	if _, ok := tagColors[base]; !ok {
		return "tag"
	}
	if background {
		return "tag tag-" + base + "-background"
	}
	return "tag tag-" + base
}

func BuildPostURL(slug string) string {
	return "/blog/" + url.PathEscape(slug)
}

func BuildTagURL(tag string) string {
	return "/blog/tag/" + url.PathEscape(tag)
}

func BuildTagBeforeURL(tag string, before time.Time) string {
	return BuildTagURL(tag) + "/before/" + url.PathEscape(posts.FormatCursor(before))
}

// HighlightStyleTag returns the inline stylesheet for code in post excerpts.
func HighlightStyleTag() string {
	return "<style>" + string(markdown.HighlightCSS()) + "</style>"
}
