package mock

import (
	"regexp"
	"strings"

	appErrors "github.com/noah-isme/sma-attendance-dashboard/pkg/errors"
)

var paramSegment = regexp.MustCompile(`^:([A-Za-z_][A-Za-z0-9_]*)(\((.+)\))?$`)

type route struct {
	pattern  string
	re       *regexp.Regexp
	names    []string
	handlers map[string]HandlerFunc
}

// Router matches prefix-stripped paths against patterns in registration order.
// A segment ":name" captures anything but "/", ":name(regexp)" constrains the capture.
type Router struct {
	routes []*route
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{}
}

// Handle registers h for method on pattern. Patterns are compiled once; repeated
// registrations of the same pattern add methods to the existing route.
func (r *Router) Handle(method, pattern string, h HandlerFunc) {
	for _, rt := range r.routes {
		if rt.pattern == pattern {
			rt.handlers[method] = h
			return
		}
	}
	re, names := compilePattern(pattern)
	r.routes = append(r.routes, &route{
		pattern:  pattern,
		re:       re,
		names:    names,
		handlers: map[string]HandlerFunc{method: h},
	})
}

// Match is a routing decision.
type Match struct {
	Pattern string
	Params  map[string]string
	Handler HandlerFunc
}

// Match finds the first route whose pattern matches path. It returns ErrNotFound when no
// pattern matches and ErrNotImplemented when the path matches but the method has no handler.
func (r *Router) Match(method, path string) (Match, error) {
	for _, rt := range r.routes {
		groups := rt.re.FindStringSubmatch(path)
		if groups == nil {
			continue
		}
		m := Match{Pattern: rt.pattern, Params: make(map[string]string, len(rt.names))}
		for i, name := range rt.names {
			m.Params[name] = groups[i+1]
		}
		h, ok := rt.handlers[method]
		if !ok {
			return m, appErrors.ErrNotImplemented
		}
		m.Handler = h
		return m, nil
	}
	return Match{}, appErrors.ErrNotFound
}

// Patterns lists registered patterns in match order.
func (r *Router) Patterns() []string {
	out := make([]string, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, rt.pattern)
	}
	return out
}

func compilePattern(pattern string) (*regexp.Regexp, []string) {
	var names []string
	segments := strings.Split(strings.Trim(pattern, "/"), "/")
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if m := paramSegment.FindStringSubmatch(seg); m != nil {
			names = append(names, m[1])
			expr := "[^/]+"
			if m[3] != "" {
				expr = m[3]
			}
			parts = append(parts, "("+expr+")")
			continue
		}
		parts = append(parts, regexp.QuoteMeta(seg))
	}
	return regexp.MustCompile("^/" + strings.Join(parts, "/") + "$"), names
}
