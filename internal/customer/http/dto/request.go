// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/fieldcrypt/internal/validation"
)

// maxProfileAttributes bounds the size of the encrypted profile document.
const maxProfileAttributes = 64

// CreateCustomerRequest contains the parameters for registering a customer.
type CreateCustomerRequest struct {
	Email   string         `json:"email"`
	Profile map[string]any `json:"profile,omitempty"`
}

// Validate checks if the create customer request is valid.
func (r *CreateCustomerRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(3, 320),
			customValidation.Email,
		),
		validation.Field(&r.Profile,
			customValidation.ProfileKeys(maxProfileAttributes),
		),
	)
}
