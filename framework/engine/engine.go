package engine

import (
	"errors"
	"fmt"
	"net/http"

	"easyblog/framework"
	"easyblog/framework/router"
	"github.com/a-h/templ"
)

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	RenderPage func(r *http.Request, w http.ResponseWriter, component templ.Component) error

	IsNotFoundError   func(err error) bool
	HandleNotFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	HandleServerError func(w http.ResponseWriter, r *http.Request, err error)
}

type Engine[C interface{}] struct {
	appContext C
	router     *router.Router
	handlers   map[string]framework.RouteHandler[C]

	renderPage func(r *http.Request, w http.ResponseWriter, component templ.Component) error

	isNotFound  func(err error) bool
	notFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	serverError func(w http.ResponseWriter, r *http.Request, err error)
}

func New[C interface{}](cfg Config[C]) (*Engine[C], error) {
	if cfg.RenderPage == nil {
		return nil, errors.New("render page callback is required")
	}
	if len(cfg.Handlers) == 0 {
		return nil, errors.New("at least one route handler is required")
	}

	patterns := make([]string, 0, len(cfg.Handlers))
	for _, handler := range cfg.Handlers {
		patterns = append(patterns, handler.RoutePattern())
	}
	routeTable, err := router.New(patterns...)
	if err != nil {
		return nil, fmt.Errorf("build route table: %w", err)
	}

	handlers := make(map[string]framework.RouteHandler[C], len(cfg.Handlers))
	for _, handler := range cfg.Handlers {
		key, err := router.Normalize(handler.RoutePattern())
		if err != nil {
			return nil, fmt.Errorf("normalize route pattern: %w", err)
		}
		handlers[key] = handler
	}

	isNotFound := cfg.IsNotFoundError
	if isNotFound == nil {
		isNotFound = func(error) bool { return false }
	}

	notFound := cfg.HandleNotFound
	if notFound == nil {
		notFound = func(w http.ResponseWriter, r *http.Request, _ framework.NotFoundContext) {
			http.NotFound(w, r)
		}
	}

	serverError := cfg.HandleServerError
	if serverError == nil {
		serverError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	return &Engine[C]{
		appContext:  cfg.AppContext,
		router:      routeTable,
		handlers:    handlers,
		renderPage:  cfg.RenderPage,
		isNotFound:  isNotFound,
		notFound:    notFound,
		serverError: serverError,
	}, nil
}

// ServeRoute serves r when its path matches a registered pattern and reports
// whether it did.
func (engine *Engine[C]) ServeRoute(w http.ResponseWriter, r *http.Request) bool {
	match, ok := engine.router.Match(r.URL.EscapedPath())
	if !ok {
		return false
	}

	handler, ok := engine.handlers[match.Pattern]
	if !ok {
		return false
	}

	handler.Serve(engine, w, r, framework.RouteParams(match.Params))
	return true
}

func (engine *Engine[C]) Patterns() []string {
	return engine.router.Patterns()
}

func (engine *Engine[C]) AppContext() C {
	return engine.appContext
}

func (engine *Engine[C]) RenderPage(
	r *http.Request,
	w http.ResponseWriter,
	component templ.Component,
) error {
	return engine.renderPage(r, w, component)
}

func (engine *Engine[C]) IsNotFound(err error) bool {
	return engine.isNotFound(err)
}

func (engine *Engine[C]) RespondNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	engine.notFound(w, r, notFoundContext)
}

func (engine *Engine[C]) RespondServerError(w http.ResponseWriter, r *http.Request, err error) {
	engine.serverError(w, r, err)
}
