package server

import (
	"net/http"

	"github.com/xy-planning-network/signpost/http/resp"
	"github.com/xy-planning-network/signpost/http/template"
	"github.com/xy-planning-network/signpost/manifest"
)

// indexHandler lists the pages of one route table, in manifest order.
type indexHandler struct {
	pages manifest.Manifest
	rp    *resp.Responder
}

func (h *indexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.rp.Html(w, r, resp.Tmpls(template.IndexTmpl), resp.Data(h.pages))
}
