/*
Package signpost serves pages described by an ordered manifest.

A manifest lists route descriptors: the page module to load, the URL path to serve it on,
and the label the generated index shows for it.
At startup, package [github.com/xy-planning-network/signpost/manifest] reads the manifest,
package [github.com/xy-planning-network/signpost/route] binds each descriptor
to the View entry point of its page module,
and package [github.com/xy-planning-network/signpost/server] serves the resulting,
immutable route table.

This package holds the pieces shared by all of those:
the [Environment] an app runs in, helpers for reading configuration from environment variables,
sentinel errors, and context keys.
*/
package signpost
