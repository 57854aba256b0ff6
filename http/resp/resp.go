package resp

import (
	"net/http"

	"github.com/xy-planning-network/signpost"
	"github.com/xy-planning-network/signpost/logger"
)

// newLogContext helps structure a logger.LogContext from the provided parts,
// including the page route stashed in r's context.
func newLogContext(r *http.Request, err error, data any) *logger.LogContext {
	if r == nil && err == nil && data == nil {
		return nil
	}

	ctx := new(logger.LogContext)
	if err != nil {
		ctx.Error = err
	}

	if mapped, ok := data.(map[string]any); ok {
		ctx.Data = mapped
	}

	if r == nil {
		return ctx
	}

	ctx.Request = r
	if page, ok := r.Context().Value(signpost.PagePathKey).(string); ok {
		ctx.Page = page
	}

	return ctx
}
