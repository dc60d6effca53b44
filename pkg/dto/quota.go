package dto

type QuotaCheckResponse struct {
	Available bool `json:"available"`
}
