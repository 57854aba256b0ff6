/*
The resp package provides a high-level API for responding to HTTP requests
with an easy way to configure the responses application-wide.

resp provides four ways of responding to an HTTP request:
- rendering HTML, either a raw string or templates
- rendering JSON data
- redirecting
- reporting an error

Each takes Fn functional options declaring how the response is formed:

	err := responder.Html(w, r, resp.Tmpls(template.IndexTmpl), resp.Data(links))
*/
package resp
