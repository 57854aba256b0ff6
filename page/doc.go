/*
Package page loads page modules and checks the entry point they expose.

A page module is a named unit exposing one function called View, the [EntryPoint].
[Handler] accepts a View matching one of these signatures:

	func() string
	func(*http.Request) string
	func(*http.Request) (string, error)
	func() map[string]any
	func(*http.Request) map[string]any
	func(http.ResponseWriter, *http.Request)
	http.Handler

Strings are written as HTML, maps as JSON.

Modules come from a [Loader]. Two are provided:

  - [Registry], a static set of modules compiled into the binary.
  - [ScriptLoader], which interprets <name>.go files in one directory with yaegi,
    allowing only a fixed set of standard library imports.

[Chain] combines several Loaders; the first to resolve a name wins.

A module name may only contain letters, digits, '_' and '-';
names with path separators or ".." are rejected by [ValidateName] before any Loader sees them.
*/
package page
