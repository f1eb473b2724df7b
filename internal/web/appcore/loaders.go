package appcore

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"easyblog/framework"
	"easyblog/internal/posts"
	"golang.org/x/sync/errgroup"
)

type TagParams struct {
	Tag string
}

type TagBeforeParams struct {
	Tag  string
	Date string
}

func ParseTagParams(params framework.RouteParams) (TagParams, bool) {
	tag, ok := params.Get("tag")
	if !ok || strings.TrimSpace(tag) == "" {
		return TagParams{}, false
	}
	return TagParams{Tag: tag}, true
}

func ParseTagBeforeParams(params framework.RouteParams) (TagBeforeParams, bool) {
	tag, ok := params.Get("tag")
	if !ok || strings.TrimSpace(tag) == "" {
		return TagBeforeParams{}, false
	}
	date, ok := params.Get("date")
	if !ok {
		return TagBeforeParams{}, false
	}
	return TagBeforeParams{Tag: tag, Date: date}, true
}

// LoadTagBeforePage loads one page of the tag archive older than the date
// parameter. An invalid date fails with posts.ErrInvalidDate before any
// content query is made.
func LoadTagBeforePage(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	params TagBeforeParams,
) (TagPageView, error) {
	before, err := posts.ParseBeforeDate(params.Date)
	if err != nil {
		return TagPageView{}, err
	}

	service, err := postsService(appCtx)
	if err != nil {
		return TagPageView{}, err
	}

	data, err := fetchTagPage(ctx, service, params.Tag, before)
	if err != nil {
		return TagPageView{}, err
	}

	return newTagPageView(appCtx.site, params.Tag, posts.DateLabel(params.Date), data), nil
}

// LoadTagPage loads the newest page of the tag archive.
func LoadTagPage(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	params TagParams,
) (TagPageView, error) {
	service, err := postsService(appCtx)
	if err != nil {
		return TagPageView{}, err
	}

	data, err := fetchTagPage(ctx, service, params.Tag, appCtx.now().UTC())
	if err != nil {
		return TagPageView{}, err
	}

	return newTagPageView(appCtx.site, params.Tag, "", data), nil
}

type tagPageData struct {
	Posts     []posts.Post
	FirstPost *posts.Post
	Ranked    []posts.Post
	Recent    []posts.Post
	Tags      []posts.Tag
}

// fetchTagPage runs the five page queries concurrently. The first failure
// cancels the others and fails the whole page.
func fetchTagPage(ctx context.Context, service *posts.Service, tag string, before time.Time) (tagPageData, error) {
	var data tagPageData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := service.PostsByTagBefore(gctx, tag, before, service.PageSize())
		data.Posts = items
		return err
	})
	g.Go(func() error {
		first, err := service.FirstPostByTag(gctx, tag)
		data.FirstPost = first
		return err
	})
	g.Go(func() error {
		items, err := service.RankedPosts(gctx)
		data.Ranked = items
		return err
	})
	g.Go(func() error {
		items, err := service.RecentPosts(gctx, service.RecentLimit())
		data.Recent = items
		return err
	})
	g.Go(func() error {
		items, err := service.AllTags(gctx)
		data.Tags = items
		return err
	})

	if err := g.Wait(); err != nil {
		return tagPageData{}, fmt.Errorf("load tag %q page: %w", tag, err)
	}

	return data, nil
}
