package web

import (
	"easyblog/framework"
	"easyblog/internal/web/appcore"
	"easyblog/internal/web/components"
	"github.com/a-h/templ"
)

const (
	TagRoutePattern       = "/blog/tag/[tag]"
	TagBeforeRoutePattern = "/blog/tag/[tag]/before/[date]"
)

func tagLayout(view appcore.TagPageView, child templ.Component) templ.Component {
	return components.Layout(view.Meta, child)
}

// Handlers returns the route table of the blog.
func Handlers() []framework.RouteHandler[*appcore.Context] {
	return []framework.RouteHandler[*appcore.Context]{
		framework.PageOnlyRouteHandler[*appcore.Context, appcore.TagParams, appcore.TagPageView]{
			Page: framework.PageModule[*appcore.Context, appcore.TagParams, appcore.TagPageView]{
				Pattern:     TagRoutePattern,
				ParseParams: appcore.ParseTagParams,
				Load:        appcore.LoadTagPage,
				Render:      components.TagPage,
				Layouts:     []framework.LayoutRenderer[appcore.TagPageView]{tagLayout},
			},
		},
		framework.PageOnlyRouteHandler[*appcore.Context, appcore.TagBeforeParams, appcore.TagPageView]{
			Page: framework.PageModule[*appcore.Context, appcore.TagBeforeParams, appcore.TagPageView]{
				Pattern:     TagBeforeRoutePattern,
				ParseParams: appcore.ParseTagBeforeParams,
				Load:        appcore.LoadTagBeforePage,
				Render:      components.TagPage,
				Layouts:     []framework.LayoutRenderer[appcore.TagPageView]{tagLayout},
			},
		},
	}
}

// RoutePatterns lists the page patterns in registration order.
func RoutePatterns() []string {
	handlers := Handlers()
	out := make([]string, 0, len(handlers))
	for _, handler := range handlers {
		out = append(out, handler.RoutePattern())
	}
	return out
}
