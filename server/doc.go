/*
Package server serves the pages of a manifest over HTTP.

[New] configures a [Server] from functional options layered over defaults read from the environment
(a .env file in the working directory is loaded first):

	ENVIRONMENT           DEVELOPMENT, TESTING, REVIEW, STAGING or PRODUCTION
	LOG_LEVEL             DEBUG, INFO, WARN, ERROR or FATAL
	SENTRY_DSN            report errors and panics to Sentry
	BASE_URL              root URL of the app
	HOST                  host used for BASE_URL when unset
	PORT                  address to listen on; default :5000
	SERVER_READ_TIMEOUT   default 5s
	SERVER_WRITE_TIMEOUT  default 5s
	SERVER_IDLE_TIMEOUT   default 120s
	SHUTDOWN_TIMEOUT      time in-flight requests get to finish; default 5s
	MANIFEST              manifest file, or redis://host:port/db?key=name; default app/nav_config.json
	PAGES_DIR             directory of page scripts; default app/pages
	WATCH                 rebuild routes on changes, in DEVELOPMENT or TESTING only
	SKIP_BROKEN_PAGES     skip pages that fail to load instead of refusing to start
	PAGE_LOAD_TIMEOUT     time a page script gets to evaluate; default 5s
	RATE_LIMIT            requests a second per visitor outside DEVELOPMENT and TESTING; default 5
	RATE_LIMIT_BURST      burst allowed per visitor; default 20

[Server.Run] reads the manifest and binds every page before opening its listener,
so a broken manifest or page never results in a partially served app.
The index at "/" links every page in manifest order.

In watch mode, a change to the manifest or a page script rebuilds the route table from scratch.
A failed rebuild is logged and the current table keeps serving.
A successful one gracefully shuts down the current http.Server,
letting in-flight requests finish against the old table,
then serves the new table on the same address.
*/
package server
