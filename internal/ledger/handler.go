package ledger

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/inboundflow/courier/pkg/handlers"
	"github.com/inboundflow/courier/pkg/routes"
)

// Handler provides HTTP endpoints for ledger operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "ledger"),
	}
}

// Routes returns the route group definition for ledger endpoints.
// Executions are exposed under their owning session.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}/executions", Handler: h.ListBySession},
		},
	}
}

// ListBySession returns a session's stage executions in start order.
func (h *Handler) ListBySession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	execs, err := h.sys.ListBySession(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, execs)
}
