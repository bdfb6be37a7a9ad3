package response_models

import "muanapay/internal/models/db_models"

type SmsIngestResponse struct {
	Success   bool                      `json:"success"`
	Message   string                    `json:"message"`
	Data      *db_models.SmsTransaction `json:"data,omitempty"`
	Filtered  bool                      `json:"filtered,omitempty"`
	Duplicate bool                      `json:"duplicate,omitempty"`
}
