package resolver

import "github.com/mesh-intelligence/jd/pkg/types"

type route struct {
	constraint types.Constraint
	resolver   Resolver
}

// Router is an ordered policy table mapping category constraints to
// resolvers. The first matching entry wins, even when later entries overlap.
type Router struct {
	routes []route
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{}
}

// Add appends a route. Routes are consulted in the order they were added.
func (r *Router) Add(c types.Constraint, res Resolver) {
	r.routes = append(r.routes, route{constraint: c, resolver: res})
}

// Find returns the resolver responsible for categoryID.
func (r *Router) Find(categoryID int) (Resolver, bool) {
	for _, rt := range r.routes {
		if rt.constraint.Matches(categoryID) {
			return rt.resolver, true
		}
	}
	return nil, false
}

// Len returns the number of routes.
func (r *Router) Len() int {
	return len(r.routes)
}

// Resolvers returns every distinct resolver in route order. A resolver
// registered under several constraints appears once.
func (r *Router) Resolvers() []Resolver {
	var out []Resolver
	seen := make(map[Resolver]bool)
	for _, rt := range r.routes {
		if seen[rt.resolver] {
			continue
		}
		seen[rt.resolver] = true
		out = append(out, rt.resolver)
	}
	return out
}
