package chimpmock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"/3.0/lists/abc/members", []string{"3.0", "lists", "abc", "members"}},
		{"/3.0/lists/abc/members/", []string{"3.0", "lists", "abc", "members"}},
		{"/3.0/lists/abc/members//", []string{"3.0", "lists", "abc", "members", ""}},
		{"/", []string{""}},
		{"", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitPath(tt.input))
		})
	}
}

func TestRouteMatch(t *testing.T) {
	list := newRoute("list", fasthttp.MethodGet, "/3.0/lists/{listId}/members", nil)
	update := newRoute("update", fasthttp.MethodPatch, "/3.0/lists/{listId}/members/{memberId}", nil)

	tests := []struct {
		name     string
		route    route
		method   string
		path     string
		expected routeParams
		ok       bool
	}{
		{"List", list, "GET", "/3.0/lists/abc/members", routeParams{"listId": "abc"}, true},
		{"List with trailing slash", list, "GET", "/3.0/lists/abc/members/", routeParams{"listId": "abc"}, true},
		{"List with wrong method", list, "POST", "/3.0/lists/abc/members", nil, false},
		{"List with suffix", list, "GET", "/3.0/lists/abc/membersXYZ", nil, false},
		{"List with wrong version", list, "GET", "/2.0/lists/abc/members", nil, false},
		{"List with empty list id", list, "GET", "/3.0/lists//members", nil, false},
		{"List with extra segment", list, "GET", "/3.0/lists/abc/members/xyz", nil, false},
		{"Update", update, "PATCH", "/3.0/lists/abc/members/xyz", routeParams{"listId": "abc", "memberId": "xyz"}, true},
		{"Update with trailing slash", update, "PATCH", "/3.0/lists/abc/members/xyz/", routeParams{"listId": "abc", "memberId": "xyz"}, true},
		{"Update without member id", update, "PATCH", "/3.0/lists/abc/members/", nil, false},
		{"Update with lowercase method", update, "patch", "/3.0/lists/abc/members/xyz", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, ok := tt.route.match(tt.method, splitPath(tt.path))

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestRouterLookup(t *testing.T) {
	var called string
	handler := func(name string) routeHandler {
		return func(*fasthttp.RequestCtx, routeParams) { called = name }
	}

	rt := &router{
		routes: []route{
			newRoute("first", fasthttp.MethodGet, "/items/{id}", handler("first")),
			newRoute("second", fasthttp.MethodGet, "/items/{other}", handler("second")),
		},
		notFound: handler("fallback"),
	}

	t.Run("First matching route wins", func(t *testing.T) {
		name, h, params := rt.lookup("GET", "/items/1")
		h(nil, params)

		assert.Equal(t, "first", name)
		assert.Equal(t, "first", called)
		assert.Equal(t, routeParams{"id": "1"}, params)
	})

	t.Run("Falls back when nothing matches", func(t *testing.T) {
		name, h, params := rt.lookup("DELETE", "/items/1")
		h(nil, params)

		assert.Equal(t, "fallback", name)
		assert.Equal(t, "fallback", called)
		assert.Nil(t, params)
	})
}
