package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"muanapay/internal/models/request_models"
	"muanapay/internal/services"
	"muanapay/pkg/utils"
)

type VerificationController struct {
	verificationService services.VerificationServiceInterface
	log                 *zap.Logger
}

func NewVerificationController(verificationService services.VerificationServiceInterface, log *zap.Logger) *VerificationController {
	return &VerificationController{
		verificationService: verificationService,
		log:                 log,
	}
}

// VerifyTransaction godoc
// @Summary Verify a mobile-money payment
// @Description Match a payment reference against ingested SMS and activate the plan
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.VerifyTransactionRequest true "Verification request"
// @Success 200 {object} response_models.VerificationResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /functions/v1/verify-transaction [post]
func (v *VerificationController) VerifyTransaction(c *gin.Context) {

	var request request_models.VerifyTransactionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// Set only when JWT auth is enabled.
	if caller := c.GetString("user_id"); caller != "" && request.UserID != "" &&
		!strings.EqualFold(caller, strings.TrimSpace(request.UserID)) {
		utils.HandleServiceError(c, v.log, utils.ErrForbidden)
		return
	}

	response, err := v.verificationService.Verify(c.Request.Context(), request)
	if err != nil {
		_ = c.Error(err)
		utils.HandleServiceError(c, v.log, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, response)
}
