/*
Package router dispatches requests to the handlers of a route table.

[Router] is a thin wrapper around [mux.Router].
A [Route] pairs a path and HTTP methods with an [http.Handler];
before a request reaches the handler, the middlewares applied to every request run,
then the request logger, then any middlewares given for that group of routes,
then the Route's own, in the order they appear.
Handlers are always wrapped with middleware.ReportPanic.

Mount registers a whole route.Table at once, answering GET and HEAD on each path.
Paths match exactly; anything else falls through to the not found handler.
*/
package router
