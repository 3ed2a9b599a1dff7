package controllers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/angelmondragon/buybuddy-backend/api/responses"
	"github.com/angelmondragon/buybuddy-backend/api/validators"
	internalorders "github.com/angelmondragon/buybuddy-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
	"github.com/angelmondragon/buybuddy-backend/pkg/logger"
)

const maxAdvanceBody = 1 << 10

// AdminAdvanceOrder moves an order one step along its fulfillment path. An
// empty body advances to the next state.
func AdminAdvanceOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw, err := io.ReadAll(io.LimitReader(r.Body, maxAdvanceBody))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}
		var body internalorders.AdvanceRequest
		if len(bytes.TrimSpace(raw)) > 0 {
			r.Body = io.NopCloser(bytes.NewReader(raw))
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		detail, err := svc.Advance(r.Context(), orderID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
