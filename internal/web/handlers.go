package web

import (
	"fmt"
	"net/http"

	"easyblog/framework"
	"easyblog/framework/httpserver"
	"easyblog/internal/config"
	"easyblog/internal/posts"
	"easyblog/internal/web/appcore"
	"easyblog/internal/web/components"
	"github.com/a-h/templ"
	"go.uber.org/zap"
)

func NewHandler(cfg config.Config, service *posts.Service, logger *zap.Logger) (http.Handler, error) {
	site := appcore.Site{
		Title:       cfg.SiteTitle,
		Description: cfg.SiteDescription,
		RootURL:     cfg.RootURL,
	}
	appCtx := appcore.NewContext(service, site)
	site = appCtx.Site()

	policies := httpserver.DefaultCachePolicies()
	if cfg.CacheControl != "" {
		policies.HTML = cfg.CacheControl
		policies.Static = cfg.CacheControl
	}

	handler, err := httpserver.New(httpserver.Config[*appcore.Context]{
		AppContext: appCtx,
		Handlers:   Handlers(),
		Static: httpserver.StaticMount{
			URLPrefix: "/static/",
			Dir:       cfg.StaticDir,
		},
		CachePolicies:   policies,
		IsNotFoundError: appcore.IsNotFoundError,
		NotFoundPage: func(notFoundContext framework.NotFoundContext) templ.Component {
			return components.Layout(
				appcore.PageMeta(site, "404 Not Found"),
				components.NotFound(notFoundContext.RequestPath),
			)
		},
		ErrorPage: func() templ.Component {
			return components.Layout(
				appcore.PageMeta(site, "Something went wrong"),
				components.ServerError(),
			)
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create http handler: %w", err)
	}

	return handler, nil
}
