package router

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
)

var dynamicSegmentNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

type pathSegment struct {
	name    string
	isParam bool
}

type route struct {
	pattern     string
	segments    []pathSegment
	staticCount int
	patternKey  string
}

type Match struct {
	Pattern string
	Params  map[string]string
}

func (m Match) Param(name string) (string, bool) {
	if m.Params == nil {
		return "", false
	}

	value, ok := m.Params[name]
	return value, ok
}

// Router matches request paths against patterns such as
// "/blog/tag/[tag]/before/[date]". Static segments win over params at equal
// depth.
type Router struct {
	routes []route
}

func New(patterns ...string) (*Router, error) {
	if len(patterns) == 0 {
		return nil, errors.New("no route patterns given")
	}

	routes := make([]route, 0, len(patterns))
	seenPattern := make(map[string]string, len(patterns))
	for _, pattern := range patterns {
		parsed, err := parseRoute(pattern)
		if err != nil {
			return nil, err
		}

		if existing, ok := seenPattern[parsed.patternKey]; ok {
			return nil, fmt.Errorf("route pattern conflict: %q and %q", existing, parsed.pattern)
		}
		seenPattern[parsed.patternKey] = parsed.pattern
		routes = append(routes, parsed)
	}

	sort.Slice(routes, func(i int, j int) bool {
		left := routes[i]
		right := routes[j]

		if left.staticCount != right.staticCount {
			return left.staticCount > right.staticCount
		}
		if len(left.segments) != len(right.segments) {
			return len(left.segments) > len(right.segments)
		}
		return left.pattern < right.pattern
	})

	return &Router{routes: routes}, nil
}

func (router *Router) Patterns() []string {
	out := make([]string, 0, len(router.routes))
	for _, route := range router.routes {
		out = append(out, route.pattern)
	}
	return out
}

// Match resolves an escaped request path (url.URL.EscapedPath). Param values
// are percent-decoded after splitting, so an encoded "/" stays inside its
// segment. A param that fails to decode does not match.
func (router *Router) Match(escapedPath string) (Match, bool) {
	requestSegments := splitPathSegments(escapedPath)

	for _, route := range router.routes {
		if len(route.segments) != len(requestSegments) {
			continue
		}

		params := make(map[string]string, 2)
		matched := true

		for idx, segment := range route.segments {
			requestValue := requestSegments[idx]
			if segment.isParam {
				decoded, err := url.PathUnescape(requestValue)
				if err != nil {
					matched = false
					break
				}
				params[segment.name] = decoded
				continue
			}

			decoded, err := url.PathUnescape(requestValue)
			if err != nil || segment.name != decoded {
				matched = false
				break
			}
		}

		if !matched {
			continue
		}

		if len(params) == 0 {
			return Match{Pattern: route.pattern}, true
		}
		return Match{Pattern: route.pattern, Params: params}, true
	}

	return Match{}, false
}

// Normalize returns the canonical form of pattern, the value Match reports in
// Match.Pattern.
func Normalize(pattern string) (string, error) {
	parsed, err := parseRoute(pattern)
	if err != nil {
		return "", err
	}
	return parsed.pattern, nil
}

func parseRoute(pattern string) (route, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(pattern))
	parts := splitPathSegments(cleaned)

	segments := make([]pathSegment, 0, len(parts))
	patternParts := make([]string, 0, len(parts))
	seenParams := make(map[string]struct{}, 2)
	staticCount := 0

	for _, part := range parts {
		name, isParam, err := parseWildcardSegment(part)
		if err != nil {
			return route{}, fmt.Errorf("route %q: %w", pattern, err)
		}

		if isParam {
			if _, ok := seenParams[name]; ok {
				return route{}, fmt.Errorf("route %q: duplicate param %q", pattern, name)
			}
			seenParams[name] = struct{}{}
			segments = append(segments, pathSegment{name: name, isParam: true})
			patternParts = append(patternParts, ":")
			continue
		}

		segments = append(segments, pathSegment{name: part, isParam: false})
		patternParts = append(patternParts, part)
		staticCount++
	}

	return route{
		pattern:     cleaned,
		segments:    segments,
		staticCount: staticCount,
		patternKey:  "/" + strings.Join(patternParts, "/"),
	}, nil
}

func parseWildcardSegment(segment string) (string, bool, error) {
	if strings.HasPrefix(segment, "[") || strings.HasSuffix(segment, "]") {
		if !strings.HasPrefix(segment, "[") || !strings.HasSuffix(segment, "]") {
			return "", false, fmt.Errorf("invalid wildcard segment %q", segment)
		}

		name := strings.TrimSpace(segment[1 : len(segment)-1])
		if !dynamicSegmentNamePattern.MatchString(name) {
			return "", false, fmt.Errorf("invalid wildcard name %q", name)
		}

		return name, true, nil
	}

	if strings.ContainsAny(segment, "[]") {
		return "", false, fmt.Errorf("invalid static segment %q", segment)
	}

	return "", false, nil
}

func splitPathSegments(raw string) []string {
	cleaned := path.Clean("/" + strings.TrimSpace(raw))
	if cleaned == "/" {
		return []string{}
	}

	trimmed := strings.Trim(cleaned, "/")
	if trimmed == "" {
		return []string{}
	}

	return strings.Split(trimmed, "/")
}
