/*
The middleware package defines what a middleware is in signpost and a set of basic middlewares.

The available middlewares are:
- CacheControl
- CORS
- ForceHTTPS
- InjectIPAddress
- LogRequest
- PagePath
- RateLimit
- ReportPanic
- RequestID

package server assembles a default chain; to assemble one by hand:

	vs := middleware.NewVisitors()
	adpts := []middleware.Adapter{
		middleware.RateLimit(vs),
		middleware.ForceHTTPS(env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(log),
	}
*/
package middleware
