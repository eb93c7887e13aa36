package api

import (
	"errors"
	"net/http"

	"github.com/MartinCastroAlvarez/zk-proof/execution"
	"github.com/MartinCastroAlvarez/zk-proof/proving"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError renders err under the single error envelope both services use.
// Malformed requests map to 400, everything that goes wrong past input
// validation (proving, verification, storage) maps to 500.
func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), errorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, proving.ErrInvalidScalar),
		errors.Is(err, proving.ErrMalformedProof),
		errors.Is(err, execution.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
