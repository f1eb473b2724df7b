package components

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"easyblog/internal/web/appcore"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, component templ.Component) string {
	t.Helper()

	var b bytes.Buffer
	require.NoError(t, component.Render(context.Background(), &b))
	return b.String()
}

func TestLayoutWritesHeadTags(t *testing.T) {
	out := render(t, Layout(appcore.Meta{
		Title:        `Posts in "go" - Blog`,
		Description:  "desc",
		SiteTitle:    "Blog",
		SiteName:     `Posts in "go" - Blog`,
		CanonicalURL: "https://example.com/blog",
		ImageURL:     "https://example.com/default.png",
	}, templ.Raw("<p>child</p>")))

	assert.Contains(t, out, "<title>Posts in &#34;go&#34; - Blog</title>")
	assert.Contains(t, out, `<link rel="canonical" href="https://example.com/blog">`)
	assert.Contains(t, out, `<meta property="og:url" content="https://example.com/blog">`)
	assert.Contains(t, out, `<meta property="og:type" content="website">`)
	assert.Contains(t, out, `<meta property="og:image" content="https://example.com/default.png">`)
	assert.Contains(t, out, `<meta name="twitter:card" content="summary_large_image">`)
	assert.Contains(t, out, `<meta name="description" content="desc">`)
	assert.Contains(t, out, "<p>child</p>")
	assert.Contains(t, out, "<style>")
}

func TestLayoutOmitsCanonicalWithoutRootURL(t *testing.T) {
	out := render(t, Layout(appcore.Meta{Title: "t", ImageURL: "/default.png"}, nil))

	assert.NotContains(t, out, "canonical")
	assert.NotContains(t, out, "og:url")
	assert.NotContains(t, out, `name="description"`)
}

func TestTagPageRendersPostsAndSidebar(t *testing.T) {
	out := render(t, TagPage(appcore.TagPageView{
		Tag:        "<js>",
		DateLabel:  "2023-06-01",
		BadgeClass: "tag tag-yellow",
		Posts: []appcore.PostView{{
			Slug:      "hooks",
			Title:     "Hooks",
			URL:       "/blog/hooks",
			DateLabel: "2023-05-20",
			Tags:      []appcore.TagView{{Name: "react", URL: "/blog/tag/react", Class: "tag tag-blue"}},
			Excerpt:   "<p>Using hooks.</p>",
		}},
		NextPageURL: "/blog/tag/js/before/2023-05-20T00:00:00Z",
		Recommended: []appcore.LinkItem{{Title: "Popular", URL: "/blog/popular"}},
		Latest:      []appcore.LinkItem{{Title: "Latest", URL: "/blog/latest"}},
		Categories:  []appcore.TagView{{Name: "go", URL: "/blog/tag/go", Class: "tag"}},
	}))

	assert.Contains(t, out, `<span class="tag tag-yellow">&lt;js&gt;</span> before 2023-06-01`)
	assert.NotContains(t, out, "no-contents")
	assert.Contains(t, out, `<div class="post-date">2023-05-20</div>`)
	assert.Contains(t, out, `<a href="/blog/tag/react" class="tag tag-blue">react</a>`)
	assert.Contains(t, out, `<a href="/blog/hooks">Hooks</a>`)
	assert.Contains(t, out, `<div class="post-excerpt"><p>Using hooks.</p></div>`)
	assert.Contains(t, out, `<a href="/blog/hooks">Read more</a>`)
	assert.Contains(t, out, `<a href="/blog/tag/js/before/2023-05-20T00:00:00Z">Next page &gt;</a>`)
	assert.Contains(t, out, "<h3>Recommended</h3>")
	assert.Contains(t, out, "<h3>Latest Posts</h3>")
	assert.Contains(t, out, "<h3>Categories</h3>")
}

func TestTagPageWithoutPosts(t *testing.T) {
	out := render(t, TagPage(appcore.TagPageView{
		Tag:         "go",
		BadgeClass:  "tag",
		Recommended: []appcore.LinkItem{{Title: "Popular", URL: "/blog/popular"}},
	}))

	assert.Contains(t, out, `<div class="no-contents">`)
	assert.NotContains(t, out, "next-page-link")
	assert.NotContains(t, out, " before ")
	assert.Contains(t, out, `<a href="/blog/popular">Popular</a>`)
}

func TestTagPageSanitizesLinkTargets(t *testing.T) {
	out := render(t, TagPage(appcore.TagPageView{
		Tag:         "go",
		BadgeClass:  "tag",
		Posts:       []appcore.PostView{{Slug: "x", Title: "X", URL: "javascript:alert(1)"}},
		NextPageURL: "/blog/tag/go/before/2023-05-20T00:00:00Z",
	}))

	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, `<a href="/blog/tag/go/before/2023-05-20T00:00:00Z">`)
}

func TestNotFoundEscapesPath(t *testing.T) {
	out := render(t, NotFound("/<script>"))
	assert.Contains(t, out, "<code>/&lt;script&gt;</code>")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestRenderReportsWriteErrors(t *testing.T) {
	err := ServerError().Render(context.Background(), failingWriter{})
	require.Error(t, err)
}
