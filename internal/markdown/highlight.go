package markdown

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"html/template"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gomarkdown/markdown/ast"
)

// Code blocks are emitted with class names; HighlightCSS colours them.
var codeFormatter = chromahtml.New(chromahtml.WithClasses(true))

var codeThemes = []struct {
	media string
	style string
}{
	{media: "(prefers-color-scheme: light)", style: "github"},
	{media: "(prefers-color-scheme: dark)", style: "monokai"},
}

var highlightCSS = sync.OnceValue(func() template.CSS {
	var out strings.Builder
	for _, theme := range codeThemes {
		var rules bytes.Buffer
		if err := codeFormatter.WriteCSS(&rules, styles.Get(theme.style)); err != nil {
			continue
		}
		fmt.Fprintf(&out, "@media %s {\n%s}\n", theme.media, rules.String())
	}
	return template.CSS(out.String())
})

// HighlightCSS returns the stylesheet for highlighted excerpt code, with a
// light and a dark palette.
func HighlightCSS() template.CSS {
	return highlightCSS()
}

func renderCode(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	if !entering {
		return ast.GoToNext, false
	}

	switch code := node.(type) {
	case *ast.CodeBlock:
		highlightBlock(w, string(code.Literal), fenceLanguage(code.Info))
	case *ast.Code:
		fmt.Fprintf(w, `<code class="inline-code">%s</code>`, stdhtml.EscapeString(string(code.Literal)))
	default:
		return ast.GoToNext, false
	}
	return ast.SkipChildren, true
}

func highlightBlock(w io.Writer, source string, language string) {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	var out bytes.Buffer
	tokens, err := chroma.Coalesce(lexer).Tokenise(nil, source)
	if err == nil {
		err = codeFormatter.Format(&out, styles.Fallback, tokens)
	}
	if err != nil {
		out.Reset()
		out.WriteString(`<pre class="chroma"><code>` + stdhtml.EscapeString(source) + `</code></pre>`)
	}
	_, _ = out.WriteTo(w)
}

// fenceLanguage returns the first word of a fence info string.
func fenceLanguage(info []byte) string {
	fields := strings.Fields(string(info))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
