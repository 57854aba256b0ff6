/*
Package manifest reads the ordered list of pages a signpost app serves.

A manifest is a list of objects, one per page:

	[
		{"file": "hello", "route": "/hello", "name": "Hello"},
		{"file": "about", "route": "/about", "name": "About us"}
	]

"file" names the page module, "route" is the URL path the page is served on,
and "name" is the label the generated index shows.
Order matters only to the index.

[Read] loads a whole manifest from a [Source] or fails with a [*ConfigurationError];
it never returns part of a manifest.
*/
package manifest
