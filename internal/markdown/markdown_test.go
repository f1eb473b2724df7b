package markdown

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

func render(source string) string {
	return string(Excerpt(source, Options{RootURL: "https://blog.example.org", MaxChars: 260}))
}

func parseForTest(source string) ast.Node {
	return parser.NewWithExtensions(parser.CommonExtensions).Parse([]byte(source))
}

func TestExcerpt_MarksExternalLinks(t *testing.T) {
	html := render("[external](https://example.com/read)")

	if !strings.Contains(html, `href="https://example.com/read"`) {
		t.Fatalf("expected external href, got %s", html)
	}
	if !strings.Contains(html, `target="_blank"`) {
		t.Fatalf("expected target blank, got %s", html)
	}
	if !strings.Contains(html, `rel="noopener noreferrer"`) {
		t.Fatalf("expected external rel attrs, got %s", html)
	}
}

func TestExcerpt_MakesOwnSiteLinksRelative(t *testing.T) {
	html := render("[same](https://blog.example.org/blog/a?x=1#k) and [lookalike](https://blog.example.org.evil.test/x)")

	if !strings.Contains(html, `href="/blog/a?x=1#k"`) {
		t.Fatalf("expected root-relative href, got %s", html)
	}
	if !strings.Contains(html, `href="https://blog.example.org.evil.test/x"`) {
		t.Fatalf("expected lookalike host to stay absolute, got %s", html)
	}
	if strings.Count(html, `rel="noopener noreferrer"`) != 1 {
		t.Fatalf("expected rel attrs only on the off-site link, got %s", html)
	}
}

func TestExcerpt_DropsUnsafeLinkTargets(t *testing.T) {
	html := render("[click](javascript:void) or [docs](https://go.dev/doc)")

	if strings.Contains(html, "javascript:") {
		t.Fatalf("expected javascript href to be dropped, got %s", html)
	}
	if !strings.Contains(html, "click") {
		t.Fatalf("expected link text to survive, got %s", html)
	}
	if !strings.Contains(html, `href="https://go.dev/doc"`) {
		t.Fatalf("expected the https link to survive, got %s", html)
	}
}

func TestExcerpt_BoundsLongSource(t *testing.T) {
	source := "[click](javascript:alert(1)) " + strings.Repeat("lorem ipsum ", 170)
	if len(source) < 2000 {
		t.Fatalf("source too short: %d", len(source))
	}

	html := render(source)

	if strings.Contains(html, `href="javascript`) {
		t.Fatalf("expected no javascript href, got %s", html)
	}
	text := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(html), "<p>"), "</p>")
	if n := utf8.RuneCountInString(text); n > 263 {
		t.Fatalf("expected at most 260 chars plus ellipsis, got %d: %s", n, text)
	}
	if !strings.HasSuffix(text, "...") {
		t.Fatalf("expected ellipsis, got %s", text)
	}
}

func TestExcerpt_KeepsLeadingBlocksWithinBudget(t *testing.T) {
	source := "Short **intro**.\n\n" + strings.Repeat("filler ", 60)

	html := render(source)

	if !strings.Contains(html, "<p>Short <strong>intro</strong>.</p>") {
		t.Fatalf("expected first paragraph, got %s", html)
	}
	if strings.Contains(html, "filler") {
		t.Fatalf("expected the oversized second paragraph to be dropped, got %s", html)
	}
}

func TestExcerpt_ClipsAtWordBoundary(t *testing.T) {
	got := string(Excerpt("alpha beta gamma delta", Options{MaxChars: 12}))

	if got != "<p>alpha beta...</p>\n" {
		t.Fatalf("unexpected excerpt %q", got)
	}
}

func TestExcerpt_HighlightsCodeBlocks(t *testing.T) {
	html := render("```go\nfmt.Println(\"hello\")\n```")

	if !strings.Contains(html, `class="chroma"`) {
		t.Fatalf("expected chroma class for fenced code block, got %s", html)
	}
	if !strings.Contains(html, "Println") {
		t.Fatalf("expected code content in rendered block, got %s", html)
	}
}

func TestExcerpt_RendersInlineCodeClass(t *testing.T) {
	html := render("Use `go test ./...` now.")

	if !strings.Contains(html, `<code class="inline-code">go test ./...</code>`) {
		t.Fatalf("expected inline code class, got %s", html)
	}
}

func TestExcerpt_SkipsRawHTML(t *testing.T) {
	html := render("hello <script>alert(1)</script>")

	if strings.Contains(html, "<script>") {
		t.Fatalf("expected raw html to be skipped, got %s", html)
	}
}

func TestExcerpt_EmptyInput(t *testing.T) {
	if html := render("   "); html != "" {
		t.Fatalf("expected empty output, got %q", html)
	}
	if html := Excerpt("text", Options{}); html != "" {
		t.Fatalf("expected empty output without a budget, got %q", html)
	}
}

func TestPlainTextSeparatesBlocks(t *testing.T) {
	doc := "- one\n- two\n\n# Title"
	got := plainText(parseForTest(doc))
	if got != "one two Title" {
		t.Fatalf("unexpected plain text %q", got)
	}
}

func TestHighlightCSS_HasBothSchemes(t *testing.T) {
	css := string(HighlightCSS())

	if !strings.Contains(css, "prefers-color-scheme: light") {
		t.Fatalf("expected light scheme block, got %s", css)
	}
	if !strings.Contains(css, "prefers-color-scheme: dark") {
		t.Fatalf("expected dark scheme block, got %s", css)
	}
	if !strings.Contains(css, ".chroma") {
		t.Fatalf("expected chroma rules, got %s", css)
	}
}
