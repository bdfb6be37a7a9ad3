package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"muanapay/internal/models/request_models"
	"muanapay/internal/models/response_models"
	"muanapay/internal/services"
	"muanapay/pkg/utils"
)

type SmsController struct {
	smsService services.SmsServiceInterface
	log        *zap.Logger
}

func NewSmsController(smsService services.SmsServiceInterface, log *zap.Logger) *SmsController {
	return &SmsController{
		smsService: smsService,
		log:        log,
	}
}

// IngestSms godoc
// @Summary Ingest a forwarded mobile-money SMS
// @Description Parse, classify and store an SMS once per (sender, message)
// @Tags SMS
// @Accept json
// @Produce json
// @Param request body request_models.SmsIngestRequest true "SMS payload"
// @Success 200 {object} response_models.SmsIngestResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /functions/v1/filter-sms [post]
func (s *SmsController) IngestSms(c *gin.Context) {

	var request request_models.SmsIngestRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := s.smsService.Ingest(c.Request.Context(), request)
	if err != nil {
		_ = c.Error(err)
		utils.HandleServiceError(c, s.log, err)
		return
	}

	switch result.Outcome {
	case services.OutcomeFiltered:
		utils.RespondJSON(c, http.StatusOK, response_models.SmsIngestResponse{
			Success:  true,
			Message:  "SMS ignored (marketing/info)",
			Filtered: true,
		})
	case services.OutcomeDuplicate:
		utils.RespondJSON(c, http.StatusOK, response_models.SmsIngestResponse{
			Success:   true,
			Message:   "SMS processed successfully",
			Duplicate: true,
		})
	default:
		utils.RespondJSON(c, http.StatusOK, response_models.SmsIngestResponse{
			Success: true,
			Message: "SMS processed successfully",
			Data:    result.Record,
		})
	}
}
