package posts

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"easyblog/internal/gql"
	md "easyblog/internal/markdown"
	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

var ErrNotFound = errors.New("not found")

const (
	defaultPageSize    = 10
	defaultRecentLimit = 5
	defaultRankedLimit = 10
	excerptMaxChars    = 260
)

type Tag struct {
	Name  string
	Color string
}

type Post struct {
	Slug    string
	Title   string
	Date    time.Time
	Tags    []Tag
	Excerpt template.HTML
	Rank    int
}

// HasTag reports whether the post is labelled with name.
func (p Post) HasTag(name string) bool {
	_, ok := p.FindTag(name)
	return ok
}

func (p Post) FindTag(name string) (Tag, bool) {
	for _, tag := range p.Tags {
		if tag.Name == name {
			return tag, true
		}
	}

	return Tag{}, false
}

type Options struct {
	PageSize    int
	RecentLimit int
	RankedLimit int
	RootURL     string
}

type Service struct {
	client      genqlientgraphql.Client
	pageSize    int
	recentLimit int
	rankedLimit int
	rootURL     string
}

func NewService(client genqlientgraphql.Client, opts Options) *Service {
	if opts.PageSize < 1 {
		opts.PageSize = defaultPageSize
	}
	if opts.RecentLimit < 1 {
		opts.RecentLimit = defaultRecentLimit
	}
	if opts.RankedLimit < 1 {
		opts.RankedLimit = defaultRankedLimit
	}

	return &Service{
		client:      client,
		pageSize:    opts.PageSize,
		recentLimit: opts.RecentLimit,
		rankedLimit: opts.RankedLimit,
		rootURL:     strings.TrimSpace(opts.RootURL),
	}
}

func (s *Service) PageSize() int {
	return s.pageSize
}

func (s *Service) RecentLimit() int {
	return s.recentLimit
}

// PostsByTagBefore returns at most limit posts tagged with tag and published
// strictly before before, newest first.
func (s *Service) PostsByTagBefore(ctx context.Context, tag string, before time.Time, limit int) ([]Post, error) {
	if limit < 1 {
		limit = s.pageSize
	}

	response, err := gql.PostsByTagBefore(ctx, s.client, tag, FormatCursor(before), limit)
	if err != nil {
		return nil, fmt.Errorf("fetch posts by tag %q before %s: %w", tag, FormatCursor(before), err)
	}

	return selectTagPage(s.mapPostsResponse(response), tag, before, limit), nil
}

// FirstPostByTag returns the oldest post under tag, or nil when the tag has
// no posts.
func (s *Service) FirstPostByTag(ctx context.Context, tag string) (*Post, error) {
	response, err := gql.FirstPostByTag(ctx, s.client, tag)
	if err != nil {
		return nil, fmt.Errorf("fetch first post by tag %q: %w", tag, err)
	}

	items := s.mapPostsResponse(response)
	var first *Post
	for idx := range items {
		if !items[idx].HasTag(tag) {
			continue
		}
		if first == nil || items[idx].Date.Before(first.Date) {
			first = &items[idx]
		}
	}

	return first, nil
}

func (s *Service) RankedPosts(ctx context.Context) ([]Post, error) {
	response, err := gql.RankedPosts(ctx, s.client, s.rankedLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch ranked posts: %w", err)
	}

	items := s.mapPostsResponse(response)
	ranked := make([]Post, 0, len(items))
	for _, item := range items {
		if item.Rank > 0 {
			ranked = append(ranked, item)
		}
	}
	sort.SliceStable(ranked, func(i int, j int) bool {
		return ranked[i].Rank > ranked[j].Rank
	})

	return ranked, nil
}

func (s *Service) RecentPosts(ctx context.Context, limit int) ([]Post, error) {
	if limit < 1 {
		limit = s.recentLimit
	}

	response, err := gql.RecentPosts(ctx, s.client, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch recent posts: %w", err)
	}

	items := s.mapPostsResponse(response)
	sortNewestFirst(items)
	if len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}

func (s *Service) AllTags(ctx context.Context) ([]Tag, error) {
	response, err := gql.AllTags(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("fetch all tags: %w", err)
	}

	if response == nil || response.Tags == nil {
		return []Tag{}, nil
	}

	seen := make(map[string]struct{}, len(response.Tags.Docs))
	out := make([]Tag, 0, len(response.Tags.Docs))
	for _, doc := range response.Tags.Docs {
		tag := mapTag(doc)
		if tag.Name == "" {
			continue
		}
		if _, ok := seen[tag.Name]; ok {
			continue
		}
		seen[tag.Name] = struct{}{}
		out = append(out, tag)
	}
	sort.SliceStable(out, func(i int, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out, nil
}

// selectTagPage keeps only posts that satisfy the tag/date page contract even
// when the content source returns extra rows.
func selectTagPage(items []Post, tag string, before time.Time, limit int) []Post {
	page := make([]Post, 0, len(items))
	for _, item := range items {
		if item.Date.IsZero() || !item.Date.Before(before) {
			continue
		}
		if !item.HasTag(tag) {
			continue
		}
		page = append(page, item)
	}

	sortNewestFirst(page)
	if len(page) > limit {
		page = page[:limit]
	}

	return page
}

func sortNewestFirst(items []Post) {
	sort.SliceStable(items, func(i int, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
}

func (s *Service) mapPostsResponse(response *gql.PostsResponse) []Post {
	if response == nil || response.Posts == nil {
		return []Post{}
	}

	out := make([]Post, 0, len(response.Posts.Docs))
	for _, doc := range response.Posts.Docs {
		post, ok := s.mapPost(doc)
		if !ok {
			continue
		}
		out = append(out, post)
	}

	return out
}

func (s *Service) mapPost(doc gql.PostDoc) (Post, bool) {
	slug := strOr(doc.Slug, "")
	if slug == "" {
		return Post{}, false
	}

	tags := make([]Tag, 0, len(doc.Tags))
	for _, item := range doc.Tags {
		tag := mapTag(item)
		if tag.Name == "" {
			continue
		}
		tags = append(tags, tag)
	}

	return Post{
		Slug:    slug,
		Title:   strOr(doc.Title, slug),
		Date:    parseDate(doc.PublishedAt),
		Tags:    tags,
		Excerpt: md.Excerpt(strOr(doc.Excerpt, ""), md.Options{
			RootURL:  s.rootURL,
			MaxChars: excerptMaxChars,
		}),
		Rank: int(floatOr(doc.Rank, 0)),
	}, true
}

func mapTag(doc gql.TagDoc) Tag {
	return Tag{
		Name:  strings.TrimSpace(doc.Name),
		Color: strings.ToLower(strOr(doc.Color, "")),
	}
}

func parseDate(raw *string) time.Time {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return time.Time{}
	}

	parsed, err := ParseBeforeDate(*raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func strOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return fallback
	}

	return trimmed
}

func floatOr(value *float64, fallback float64) float64 {
	if value == nil {
		return fallback
	}

	return *value
}
