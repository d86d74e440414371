package handler

import (
	"net/http"

	"github.com/itchan-dev/postboard/shared/logger"
	"github.com/itchan-dev/postboard/shared/utils"
)

// Reset empties both collections. It is only routed when enable_reset is set.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.post.ClearDb(r.Context()); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.user.ClearDb(r.Context()); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	logger.Log.Warn("store reset", "remote_addr", r.RemoteAddr)
	w.WriteHeader(http.StatusNoContent)
}
