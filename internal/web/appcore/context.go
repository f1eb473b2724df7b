package appcore

import (
	"errors"
	"strings"
	"time"

	"easyblog/internal/posts"
)

var errPostsServiceUnavailable = errors.New("posts service unavailable")

// Site carries the site-wide settings pages are rendered with.
type Site struct {
	Title       string
	Description string
	RootURL     string
}

type Context struct {
	service *posts.Service
	site    Site
	now     func() time.Time
}

func NewContext(service *posts.Service, site Site) *Context {
	site.RootURL = strings.TrimRight(strings.TrimSpace(site.RootURL), "/")
	return &Context{
		service: service,
		site:    site,
		now:     time.Now,
	}
}

func (c *Context) Site() Site {
	if c == nil {
		return Site{}
	}
	return c.site
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, posts.ErrNotFound) || errors.Is(err, posts.ErrInvalidDate)
}

func postsService(appCtx *Context) (*posts.Service, error) {
	if appCtx == nil || appCtx.service == nil {
		return nil, errPostsServiceUnavailable
	}
	return appCtx.service, nil
}
