package api

import (
	"encoding/hex"
	"math/big"
	"net/http"
	"strings"

	"github.com/MartinCastroAlvarez/zk-proof/credentials"
	"github.com/MartinCastroAlvarez/zk-proof/proving"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/gin-gonic/gin"
)

type ProofService struct {
	prover      *proving.Prover
	credentials *credentials.Store
}

func NewProofService(prover *proving.Prover, creds *credentials.Store) *ProofService {
	return &ProofService{
		prover:      prover,
		credentials: creds,
	}
}

func (s *ProofService) Handler() http.Handler {
	engine := newEngine()
	engine.POST("/generate", s.handleGenerate)
	engine.POST("/verify", s.handleVerify)
	engine.GET("/vk", s.handleVk)
	engine.GET("/vk/params", s.handleVkParams)
	engine.POST("/auth", s.handleSetCredentials)
	engine.GET("/auth", s.handleGetCredentials)
	engine.POST("/contract", s.handleSetContract)
	return engine
}

type GenerateRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

type GenerateResponse struct {
	Proof       string `json:"proof"`
	PublicInput string `json:"public_input"`
}

func (s *ProofService) handleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	a, err := proving.ParseScalar(req.A)
	if err != nil {
		writeError(c, err)
		return
	}
	b, err := proving.ParseScalar(req.B)
	if err != nil {
		writeError(c, err)
		return
	}
	log.Info("Proving for generate call", "a", req.A, "b", req.B)
	proof, sum, err := s.prover.Generate(c.Request.Context(), a, b)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenerateResponse{Proof: proof, PublicInput: sum.String()})
}

type VerifyRequest struct {
	Proof       string `json:"proof"`
	PublicInput string `json:"public_input"`
}

type VerifyResponse struct {
	IsValid bool `json:"is_valid"`
}

func (s *ProofService) handleVerify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	publicInput, err := proving.ParseScalar(req.PublicInput)
	if err != nil {
		writeError(c, err)
		return
	}
	valid, err := s.prover.Verify(req.Proof, publicInput)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, VerifyResponse{IsValid: valid})
}

type VkResponse struct {
	Vk string `json:"vk"`
}

func (s *ProofService) handleVk(c *gin.Context) {
	vk, err := proving.VkToBase64(s.prover.Circuit().Vk)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, VkResponse{Vk: vk})
}

// VkParamsResponse carries the twelve constructor arguments of the on-chain
// verifier as decimal strings, G2 coordinates in (A0, A1) order.
type VkParamsResponse struct {
	AlphaX     string    `json:"alpha_x"`
	AlphaY     string    `json:"alpha_y"`
	BetaX      [2]string `json:"beta_x"`
	BetaY      [2]string `json:"beta_y"`
	GammaX     [2]string `json:"gamma_x"`
	GammaY     [2]string `json:"gamma_y"`
	DeltaX     [2]string `json:"delta_x"`
	DeltaY     [2]string `json:"delta_y"`
	GammaAbc0X string    `json:"gamma_abc0_x"`
	GammaAbc0Y string    `json:"gamma_abc0_y"`
	GammaAbc1X string    `json:"gamma_abc1_x"`
	GammaAbc1Y string    `json:"gamma_abc1_y"`
}

func (s *ProofService) handleVkParams(c *gin.Context) {
	params, err := proving.ExtractVkParams(s.prover.Circuit().Vk)
	if err != nil {
		writeError(c, err)
		return
	}
	pair := func(p [2]*big.Int) [2]string {
		return [2]string{p[0].String(), p[1].String()}
	}
	c.JSON(http.StatusOK, VkParamsResponse{
		AlphaX:     params.AlphaX.String(),
		AlphaY:     params.AlphaY.String(),
		BetaX:      pair(params.BetaX),
		BetaY:      pair(params.BetaY),
		GammaX:     pair(params.GammaX),
		GammaY:     pair(params.GammaY),
		DeltaX:     pair(params.DeltaX),
		DeltaY:     pair(params.DeltaY),
		GammaAbc0X: params.K0X.String(),
		GammaAbc0Y: params.K0Y.String(),
		GammaAbc1X: params.K1X.String(),
		GammaAbc1Y: params.K1Y.String(),
	})
}

type AuthRequest struct {
	Address   string `json:"address"`
	SecretKey string `json:"secret_key"`
}

type AuthResponse struct {
	Address string `json:"address"`
}

func (s *ProofService) handleSetCredentials(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if !common.IsHexAddress(req.Address) {
		badRequest(c, "invalid address")
		return
	}
	if !isHexScalar(req.SecretKey) {
		badRequest(c, "invalid secret key")
		return
	}
	if err := s.credentials.SaveKeyPair(req.Address, req.SecretKey); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Address: req.Address})
}

func (s *ProofService) handleGetCredentials(c *gin.Context) {
	address, err := s.credentials.PublicAddress()
	if err != nil {
		writeError(c, err)
		return
	}
	if address == "" {
		c.JSON(http.StatusNotFound, errorResponse{Error: "credentials not configured"})
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Address: address})
}

type ContractRequest struct {
	Address string `json:"address"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func (s *ProofService) handleSetContract(c *gin.Context) {
	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if !common.IsHexAddress(req.Address) {
		badRequest(c, "invalid address")
		return
	}
	if err := s.credentials.SaveContractAddress(req.Address); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "success"})
}

// isHexScalar reports whether s is a 32-byte hex string, with or without the
// 0x prefix. Secret keys are validated for shape only, never derived from.
func isHexScalar(s string) bool {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	return err == nil && len(b) == 32
}
