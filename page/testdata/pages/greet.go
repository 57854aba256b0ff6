package greet

import (
	"fmt"
	"html"
	"net/http"
)

func View(r *http.Request) string {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "stranger"
	}

	return fmt.Sprintf("<p>Hello, %s</p>", html.EscapeString(name))
}
