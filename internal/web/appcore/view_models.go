package appcore

import (
	"html/template"
	"strings"

	"easyblog/internal/posts"
)

const postDateLayout = "2006-01-02"

// Meta is the document head of a page: title, description and the social
// preview tags.
type Meta struct {
	Title        string
	Description  string
	SiteTitle    string
	SiteName     string
	CanonicalURL string
	ImageURL     string
}

type TagView struct {
	Name  string
	URL   string
	Class string
}

type LinkItem struct {
	Title string
	URL   string
}

type PostView struct {
	Slug      string
	Title     string
	URL       string
	DateLabel string
	Tags      []TagView
	Excerpt   template.HTML
}

type TagPageView struct {
	Meta Meta

	Tag        string
	DateLabel  string
	BadgeClass string

	Posts       []PostView
	NextPageURL string

	Recommended []LinkItem
	Latest      []LinkItem
	Categories  []TagView
}

func (v TagPageView) HasPosts() bool {
	return len(v.Posts) > 0
}

func (v TagPageView) HasNextPage() bool {
	return v.NextPageURL != ""
}

// Heading is the plain-text page heading: the tag, followed by the date when
// the page is an older slice of the archive.
func (v TagPageView) Heading() string {
	if v.DateLabel == "" {
		return v.Tag
	}
	return v.Tag + " before " + v.DateLabel
}

func newTagPageView(site Site, tag string, dateLabel string, data tagPageData) TagPageView {
	title := "Posts in " + tag
	if dateLabel != "" {
		title += " before " + dateLabel
	}

	var badgeColor string
	if len(data.Posts) > 0 {
		if current, ok := data.Posts[0].FindTag(tag); ok {
			badgeColor = current.Color
		}
	}

	return TagPageView{
		Meta:        newMeta(site, title),
		Tag:         tag,
		DateLabel:   dateLabel,
		BadgeClass:  TagClass(badgeColor),
		Posts:       newPostViews(data.Posts),
		NextPageURL: nextPageURL(tag, data.Posts, data.FirstPost),
		Recommended: newLinkItems(data.Ranked),
		Latest:      newLinkItems(data.Recent),
		Categories:  newTagViews(data.Tags),
	}
}

func newMeta(site Site, title string) Meta {
	if siteTitle := strings.TrimSpace(site.Title); siteTitle != "" {
		title += " - " + siteTitle
	}

	meta := Meta{
		Title:       title,
		Description: site.Description,
		SiteTitle:   site.Title,
		SiteName:    title,
		ImageURL:    site.RootURL + "/default.png",
	}
	if site.RootURL != "" {
		meta.CanonicalURL = site.RootURL + "/blog"
	}
	return meta
}

// PageMeta is the head of pages outside the archive, such as the not-found
// and error pages.
func PageMeta(site Site, title string) Meta {
	return newMeta(site, title)
}

func newPostViews(items []posts.Post) []PostView {
	out := make([]PostView, 0, len(items))
	for _, item := range items {
		var dateLabel string
		if !item.Date.IsZero() {
			dateLabel = item.Date.UTC().Format(postDateLayout)
		}

		out = append(out, PostView{
			Slug:      item.Slug,
			Title:     item.Title,
			URL:       BuildPostURL(item.Slug),
			DateLabel: dateLabel,
			Tags:      newTagViews(item.Tags),
			Excerpt:   item.Excerpt,
		})
	}
	return out
}

func newTagViews(items []posts.Tag) []TagView {
	out := make([]TagView, 0, len(items))
	for _, item := range items {
		out = append(out, TagView{
			Name:  item.Name,
			URL:   BuildTagURL(item.Name),
			Class: TagClass(item.Color),
		})
	}
	return out
}

func newLinkItems(items []posts.Post) []LinkItem {
	out := make([]LinkItem, 0, len(items))
	for _, item := range items {
		out = append(out, LinkItem{
			Title: item.Title,
			URL:   BuildPostURL(item.Slug),
		})
	}
	return out
}

// nextPageURL links to the posts older than the page's last one, unless that
// post is already the first ever published under the tag.
func nextPageURL(tag string, page []posts.Post, first *posts.Post) string {
	if len(page) == 0 || first == nil {
		return ""
	}

	last := page[len(page)-1]
	if last.Slug == first.Slug || last.Date.IsZero() {
		return ""
	}

	return BuildTagBeforeURL(tag, last.Date)
}
