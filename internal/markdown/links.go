package markdown

import (
	"net/url"
	"strings"

	"github.com/gomarkdown/markdown/ast"
)

// rewriteLinks makes links into the blog root-relative and opens every link
// in a new tab. Off-site links also drop the opener and referrer.
func rewriteLinks(doc ast.Node, rootURL string) {
	var siteHost string
	if root, err := url.Parse(rootURL); err == nil {
		siteHost = strings.ToLower(root.Host)
	}

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		link, ok := node.(*ast.Link)
		if !entering || !ok {
			return ast.GoToNext
		}

		href, onSite := siteRelative(string(link.Destination), siteHost)
		link.Destination = []byte(href)
		link.AdditionalAttributes = linkAttributes(link.AdditionalAttributes, onSite)
		return ast.GoToNext
	})
}

func siteRelative(href string, siteHost string) (string, bool) {
	target, err := url.Parse(href)
	if err != nil {
		return href, false
	}
	if target.Scheme == "" && target.Host == "" {
		return href, true
	}
	if siteHost == "" || strings.ToLower(target.Host) != siteHost {
		return href, false
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return href, false
	}

	relative := url.URL{
		Path:     target.Path,
		RawPath:  target.RawPath,
		RawQuery: target.RawQuery,
		Fragment: target.Fragment,
	}
	if relative.Path == "" {
		relative.Path = "/"
	}
	return relative.String(), true
}

func linkAttributes(existing []string, onSite bool) []string {
	attrs := make([]string, 0, len(existing)+2)
	for _, attr := range existing {
		name, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(attr)), "=")
		if name == "target" || name == "rel" {
			continue
		}
		attrs = append(attrs, attr)
	}

	attrs = append(attrs, `target="_blank"`)
	if !onSite {
		attrs = append(attrs, `rel="noopener noreferrer"`)
	}
	return attrs
}
