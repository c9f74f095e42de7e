package chimpmock

import (
	"strings"

	"github.com/valyala/fasthttp"
)

type routeParams map[string]string

type routeHandler func(ctx *fasthttp.RequestCtx, params routeParams)

// route pairs a method with a path pattern. Pattern segments written as
// {name} match any non-empty segment and are captured under name; every other
// segment must match exactly.
type route struct {
	name     string
	method   string
	segments []string
	handler  routeHandler
}

func newRoute(name, method, pattern string, handler routeHandler) route {
	return route{
		name:     name,
		method:   method,
		segments: splitPath(pattern),
		handler:  handler,
	}
}

func (r route) match(method string, segments []string) (routeParams, bool) {
	if method != r.method || len(segments) != len(r.segments) {
		return nil, false
	}

	var params routeParams
	for i, want := range r.segments {
		got := segments[i]
		if name, ok := wildcardName(want); ok {
			if got == "" {
				return nil, false
			}
			if params == nil {
				params = make(routeParams, 2)
			}
			params[name] = got
			continue
		}

		if got != want {
			return nil, false
		}
	}

	return params, true
}

func wildcardName(segment string) (string, bool) {
	if len(segment) > 2 && segment[0] == '{' && segment[len(segment)-1] == '}' {
		return segment[1 : len(segment)-1], true
	}

	return "", false
}

// splitPath drops the leading slash and at most one trailing slash.
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")

	return strings.Split(path, "/")
}

// router evaluates its routes in order and falls back to notFound.
type router struct {
	routes   []route
	notFound routeHandler
}

func (rt *router) lookup(method, path string) (string, routeHandler, routeParams) {
	segments := splitPath(path)
	for _, r := range rt.routes {
		if params, ok := r.match(method, segments); ok {
			return r.name, r.handler, params
		}
	}

	return "fallback", rt.notFound, nil
}
