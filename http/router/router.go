package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/signpost"
	"github.com/xy-planning-network/signpost/http/middleware"
	"github.com/xy-planning-network/signpost/route"
)

// A Route maps a path and HTTP methods to an [http.Handler].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
//
// Path is a [mux] path template unless Exact is set,
// in which case only requests for exactly Path match.
type Route struct {
	Path        string
	Methods     []string
	Handler     http.Handler
	Middlewares []middleware.Adapter
	Exact       bool
}

// Router dispatches requests to the routes of a signpost app.
type Router struct {
	Env           signpost.Environment
	everyReqStack []middleware.Adapter
	logReq        middleware.Adapter
	r             *mux.Router
}

// New constructs a [*Router] for the given environment.
// logReq wraps every route, including the not found handler.
func New(env signpost.Environment, logReq middleware.Adapter) *Router {
	if logReq == nil {
		logReq = middleware.NoopAdapter
	}

	r := mux.NewRouter()
	rt := &Router{logReq: logReq, Env: env, r: r}
	rt.HandleNotFound(http.NotFound)

	return rt
}

// Handle applies the [Route] to the [*Router].
func (r *Router) Handle(route Route) {
	r.HandleRoutes([]Route{route})
}

// HandleNotFound sets the provided [http.HandlerFunc] as the default function
// for when no other registered Route is matched.
func (r *Router) HandleNotFound(handler http.HandlerFunc) {
	mws := make([]middleware.Adapter, 0, len(r.everyReqStack)+1)
	mws = append(mws, r.everyReqStack...)
	mws = append(mws, r.logReq)

	r.r.NotFoundHandler = middleware.Chain(middleware.ReportPanic(r.Env)(handler), mws...)
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route.
// Any [middleware.Adapter] already assigned to a Route is appended to middlewares,
// so are called after the default set.
// A Route without Methods answers GET and HEAD.
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) {
	for _, route := range routes {
		mws := make([]middleware.Adapter, 0, len(r.everyReqStack)+len(middlewares)+len(route.Middlewares)+1)
		mws = append(mws, r.everyReqStack...)
		mws = append(mws, r.logReq)
		mws = append(mws, middlewares...)
		mws = append(mws, route.Middlewares...)

		methods := route.Methods
		if len(methods) == 0 {
			methods = []string{http.MethodGet, http.MethodHead}
		}

		handler := middleware.Chain(middleware.ReportPanic(r.Env)(route.Handler), mws...)
		r.route(route).Handler(handler).Methods(methods...)
	}
}

// route starts a *mux.Route matching the path of rt.
func (r *Router) route(rt Route) *mux.Route {
	if !rt.Exact {
		return r.r.Path(rt.Path)
	}

	p := rt.Path
	return r.r.MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
		return req.URL.Path == p
	})
}

// Mount registers every entry of tbl as a GET and HEAD route.
// Entry paths match literally, never as path templates.
// Pages see the route they were bound under through middleware.PagePath.
func (r *Router) Mount(tbl *route.Table, middlewares ...middleware.Adapter) {
	es := tbl.Entries()
	routes := make([]Route, 0, len(es))
	for _, e := range es {
		rt := Route{Path: e.Path, Handler: e.Handler, Exact: true}
		if !e.Builtin {
			rt.Middlewares = []middleware.Adapter{middleware.PagePath(e.Path)}
		}

		routes = append(routes, rt)
	}

	r.HandleRoutes(routes, middlewares...)
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request registered afterwards.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.r.ServeHTTP(w, req)
}

// Subrouter constructs a [Router] that handles requests to endpoints matching the prefix.
//
// e.g., r.Subrouter("/api") handles requests to endpoints like /api/status
func (r *Router) Subrouter(prefix string) *Router {
	return &Router{
		Env:           r.Env,
		r:             r.r.PathPrefix(prefix).Subrouter(),
		logReq:        r.logReq,
		everyReqStack: r.everyReqStack,
	}
}
