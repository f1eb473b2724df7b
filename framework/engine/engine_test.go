package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"easyblog/framework"
	"github.com/a-h/templ"
)

type testAppContext struct{}

type componentFunc func(ctx context.Context, w io.Writer) error

func (f componentFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

func textComponent(value string) templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, value)
		return err
	})
}

func wrapComponent(tag string, child templ.Component) templ.Component {
	return componentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "["+tag+"]"); err != nil {
			return err
		}
		if err := child.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "[/"+tag+"]")
		return err
	})
}

type tagParams struct {
	Tag string
}

func parseTagParams(params framework.RouteParams) (tagParams, bool) {
	tag, ok := params.Get("tag")
	return tagParams{Tag: tag}, ok && strings.TrimSpace(tag) != ""
}

func tagPage(load framework.PageLoader[*testAppContext, tagParams, string]) framework.RouteHandler[*testAppContext] {
	return framework.PageOnlyRouteHandler[*testAppContext, tagParams, string]{
		Page: framework.PageModule[*testAppContext, tagParams, string]{
			Pattern:     "/blog/tag/[tag]",
			ParseParams: parseTagParams,
			Load:        load,
			Render:      func(view string) templ.Component { return textComponent(view) },
		},
	}
}

func bufferRenderer(rendered *string) func(*http.Request, http.ResponseWriter, templ.Component) error {
	return func(_ *http.Request, _ http.ResponseWriter, component templ.Component) error {
		var b bytes.Buffer
		if err := component.Render(context.Background(), &b); err != nil {
			return err
		}
		*rendered = b.String()
		return nil
	}
}

func TestServeRouteDecodesParams(t *testing.T) {
	var rendered string

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{},
		Handlers: []framework.RouteHandler[*testAppContext]{
			tagPage(func(_ context.Context, _ *testAppContext, _ *http.Request, params tagParams) (string, error) {
				return "tag=" + params.Tag, nil
			}),
		},
		RenderPage: bufferRenderer(&rendered),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/blog/tag/a%2Fb%20c", nil)) {
		t.Fatal("expected route to match")
	}
	if rendered != "tag=a/b c" {
		t.Fatalf("expected decoded tag, got %q", rendered)
	}

	if routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil)) {
		t.Fatal("did not expect missing route to match")
	}
}

func TestNewRejectsConflictingPatterns(t *testing.T) {
	load := func(context.Context, *testAppContext, *http.Request, tagParams) (string, error) { return "", nil }

	_, err := New(Config[*testAppContext]{
		Handlers:   []framework.RouteHandler[*testAppContext]{tagPage(load), tagPage(load)},
		RenderPage: func(*http.Request, http.ResponseWriter, templ.Component) error { return nil },
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}

	_, err = New(Config[*testAppContext]{
		Handlers: []framework.RouteHandler[*testAppContext]{tagPage(load)},
	})
	if err == nil {
		t.Fatal("expected missing renderer error")
	}
}

func TestNotFoundAndServerErrorClassification(t *testing.T) {
	errNotFound := errors.New("not found")
	errBoom := errors.New("boom")

	cases := []struct {
		name           string
		path           string
		loadErr        error
		expectNotFound bool
		expectSource   framework.NotFoundSource
		expectServer   bool
	}{
		{name: "not found", path: "/blog/tag/go", loadErr: errNotFound, expectNotFound: true, expectSource: framework.NotFoundSourcePageLoad},
		{name: "server error", path: "/blog/tag/go", loadErr: errBoom, expectServer: true},
		{name: "rejected params", path: "/blog/tag/%20", expectNotFound: true, expectSource: framework.NotFoundSourceParams},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			notFoundCalled := false
			serverErrorCalled := false
			loadCalled := false
			var notFoundContext framework.NotFoundContext

			routeEngine, err := New(Config[*testAppContext]{
				AppContext: &testAppContext{},
				Handlers: []framework.RouteHandler[*testAppContext]{
					tagPage(func(context.Context, *testAppContext, *http.Request, tagParams) (string, error) {
						loadCalled = true
						return "", tc.loadErr
					}),
				},
				RenderPage:      func(*http.Request, http.ResponseWriter, templ.Component) error { return nil },
				IsNotFoundError: func(err error) bool { return errors.Is(err, errNotFound) },
				HandleNotFound: func(_ http.ResponseWriter, _ *http.Request, ctx framework.NotFoundContext) {
					notFoundCalled = true
					notFoundContext = ctx
				},
				HandleServerError: func(_ http.ResponseWriter, _ *http.Request, err error) {
					serverErrorCalled = true
					if !errors.Is(err, errBoom) {
						t.Fatalf("expected wrapped load error, got %v", err)
					}
				},
			})
			if err != nil {
				t.Fatalf("new engine: %v", err)
			}

			if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil)) {
				t.Fatal("expected route to match")
			}
			if notFoundCalled != tc.expectNotFound {
				t.Fatalf("not found callback: expected %v, got %v", tc.expectNotFound, notFoundCalled)
			}
			if serverErrorCalled != tc.expectServer {
				t.Fatalf("server error callback: expected %v, got %v", tc.expectServer, serverErrorCalled)
			}
			if tc.expectNotFound {
				if notFoundContext.Source != tc.expectSource {
					t.Fatalf("expected not-found source %q, got %q", tc.expectSource, notFoundContext.Source)
				}
				if notFoundContext.MatchedRoutePattern != "/blog/tag/[tag]" {
					t.Fatalf("expected matched route pattern, got %q", notFoundContext.MatchedRoutePattern)
				}
			}
			if tc.expectSource == framework.NotFoundSourceParams && loadCalled {
				t.Fatal("did not expect loader to run for rejected params")
			}
		})
	}
}

func TestLayoutOrder(t *testing.T) {
	var rendered string

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{},
		Handlers: []framework.RouteHandler[*testAppContext]{
			framework.PageOnlyRouteHandler[*testAppContext, framework.EmptyParams, string]{
				Page: framework.PageModule[*testAppContext, framework.EmptyParams, string]{
					Pattern: "/blog",
					ParseParams: func(framework.RouteParams) (framework.EmptyParams, bool) {
						return framework.EmptyParams{}, true
					},
					Load: func(context.Context, *testAppContext, *http.Request, framework.EmptyParams) (string, error) {
						return "body", nil
					},
					Render: func(view string) templ.Component { return textComponent(view) },
					Layouts: []framework.LayoutRenderer[string]{
						func(_ string, child templ.Component) templ.Component {
							return wrapComponent("outer", child)
						},
						func(_ string, child templ.Component) templ.Component {
							return wrapComponent("inner", child)
						},
					},
				},
			},
		},
		RenderPage: bufferRenderer(&rendered),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/blog", nil)) {
		t.Fatal("expected route to match")
	}
	if rendered != "[outer][inner]body[/inner][/outer]" {
		t.Fatalf("unexpected render output: %q", rendered)
	}
}
