package handlers

import (
	"github.com/m1z23r/drift/pkg/drift"

	"github.com/vmilosev/ledara-api/internal/apperr"
)

// respondError is the single place service errors become HTTP responses.
// Unclassified errors never leak their message to the caller.
func respondError(c *drift.Context, err error) {
	kind, ok := apperr.KindOf(err)
	if !ok {
		c.InternalServerError("internal server error")
		return
	}

	switch kind {
	case apperr.KindValidation:
		c.BadRequest(err.Error())
	case apperr.KindAuthentication:
		c.Unauthorized(err.Error())
	case apperr.KindNotFound:
		c.NotFound(err.Error())
	default:
		c.InternalServerError("internal server error")
	}
}
