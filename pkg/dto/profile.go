package dto

import "encoding/json"

type UpdateProfileRequest struct {
	FirstName *string         `json:"first_name,omitempty"`
	LastName  *string         `json:"last_name,omitempty"`
	Phone     *string         `json:"phone,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	return nil
}
