// Package markdown renders post excerpts stored as markdown in the CMS.
package markdown

import (
	stdhtml "html"
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"

	md "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

type Options struct {
	// RootURL is the blog's own origin. Links to it are made root-relative.
	RootURL string
	// MaxChars bounds the visible text of the excerpt, counted in runes.
	MaxChars int
}

const excerptRenderFlags = mdhtml.CommonFlags | mdhtml.SkipHTML | mdhtml.Safelink

// Excerpt renders the leading blocks of source whose combined text fits in
// opts.MaxChars. When even the first block is too long, its text is clipped
// and rendered as a single paragraph. Raw HTML is dropped and links with an
// unsafe scheme lose their href.
func Excerpt(source string, opts Options) template.HTML {
	if opts.MaxChars < 1 || strings.TrimSpace(source) == "" {
		return ""
	}

	doc := parser.NewWithExtensions(parser.CommonExtensions).Parse([]byte(source))

	blocks := doc.GetChildren()
	kept := make([]ast.Node, 0, len(blocks))
	budget := opts.MaxChars
	for _, block := range blocks {
		text := plainText(block)
		size := utf8.RuneCountInString(text)
		if size <= budget {
			kept = append(kept, block)
			budget -= size
			continue
		}
		if len(kept) == 0 {
			return template.HTML("<p>" + stdhtml.EscapeString(clip(text, opts.MaxChars)) + "</p>\n")
		}
		break
	}
	if len(kept) == 0 {
		return ""
	}
	doc.SetChildren(kept)

	rewriteLinks(doc, opts.RootURL)

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags:          excerptRenderFlags,
		RenderNodeHook: renderCode,
	})
	return template.HTML(md.Render(doc, renderer))
}

// plainText returns the visible text of node with whitespace collapsed.
func plainText(node ast.Node) string {
	var text strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		switch n.(type) {
		case *ast.HTMLBlock, *ast.HTMLSpan:
			return ast.SkipChildren
		case *ast.Text, *ast.Code, *ast.CodeBlock:
			if entering {
				text.Write(n.AsLeaf().Literal)
			}
		case *ast.Softbreak, *ast.Hardbreak:
			text.WriteByte(' ')
		case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.TableCell:
			if !entering {
				text.WriteByte(' ')
			}
		}
		return ast.GoToNext
	})
	return strings.Join(strings.Fields(text.String()), " ")
}

// clip cuts text to limit runes, preferring a word boundary in the last fifth.
func clip(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)[:limit]
	for i := len(runes) - 1; i >= limit*4/5; i-- {
		if unicode.IsSpace(runes[i]) {
			runes = runes[:i]
			break
		}
	}
	return strings.TrimRightFunc(string(runes), unicode.IsSpace) + "..."
}
