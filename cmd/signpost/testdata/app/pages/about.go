package about

import (
	"fmt"
	"net/http"
)

func View(r *http.Request) (string, error) {
	return fmt.Sprintf("<p>You asked for %s.</p>", r.URL.Path), nil
}
