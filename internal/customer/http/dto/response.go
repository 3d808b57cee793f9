package dto

import (
	"time"

	customerDomain "github.com/allisson/fieldcrypt/internal/customer/domain"
)

// CustomerResponse represents a decrypted customer in API responses.
type CustomerResponse struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Profile   map[string]any `json:"profile,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ListCustomersResponse represents a page of customers.
type ListCustomersResponse struct {
	Data       []CustomerResponse `json:"data"`
	NextOffset *int               `json:"next_offset,omitempty"`
}

// MapCustomerToResponse converts a domain customer to an API response.
func MapCustomerToResponse(customer *customerDomain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        customer.ID.String(),
		Email:     customer.Email,
		Profile:   customer.Profile,
		CreatedAt: customer.CreatedAt,
	}
}

// MapCustomersToListResponse converts domain customers to a list API response. nextOffset is
// nil on the last page.
func MapCustomersToListResponse(customers []*customerDomain.Customer, nextOffset *int) ListCustomersResponse {
	data := make([]CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		data = append(data, MapCustomerToResponse(customer))
	}
	return ListCustomersResponse{Data: data, NextOffset: nextOffset}
}
