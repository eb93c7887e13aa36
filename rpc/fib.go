package api

import (
	"net/http"
	"strconv"

	"github.com/MartinCastroAlvarez/zk-proof/execution"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/gin-gonic/gin"
)

type FibService struct {
	prover *execution.Prover
}

func NewFibService(prover *execution.Prover) *FibService {
	return &FibService{prover: prover}
}

func (s *FibService) Handler() http.Handler {
	engine := newEngine()
	engine.POST("/fib/:n", s.handleFib)
	return engine
}

type FibResponse struct {
	Result uint64        `json:"result"`
	Proof  hexutil.Bytes `json:"proof"`
}

func (s *FibService) handleFib(c *gin.Context) {
	n, err := strconv.ParseUint(c.Param("n"), 10, 64)
	if err != nil {
		badRequest(c, "index must be an unsigned integer")
		return
	}
	log.Info("Proving for fib call", "n", n)
	receipt, err := s.prover.Phi(c.Request.Context(), n)
	if err != nil {
		writeError(c, err)
		return
	}
	encoded, err := receipt.MarshalBinary()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, FibResponse{Result: receipt.Journal, Proof: encoded})
}
