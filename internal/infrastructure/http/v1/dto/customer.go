package dto

import (
	"tilepos/internal/domain/catalogs/customer"
	"tilepos/internal/domain/pricing"
)

// --- Request DTOs ---

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Code    string          `json:"code" binding:"required"`
	Name    string          `json:"name" binding:"required"`
	Channel pricing.Channel `json:"channel" binding:"required"`
	Tier    string          `json:"tier"`
	Phone   *string         `json:"phone"`
	Email   *string         `json:"email"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	c := customer.NewCustomer(r.Code, r.Name, r.Channel)
	if r.Tier != "" {
		c.Tier = r.Tier
	}
	c.Phone = r.Phone
	c.Email = r.Email
	return c
}

// UpdateCustomerRequest is the request body for updating a customer.
type UpdateCustomerRequest struct {
	Code    string          `json:"code" binding:"required"`
	Name    string          `json:"name" binding:"required"`
	Channel pricing.Channel `json:"channel" binding:"required"`
	Tier    string          `json:"tier"`
	Phone   *string         `json:"phone"`
	Email   *string         `json:"email"`
	Version int             `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	c.Code = r.Code
	c.Name = r.Name
	c.Channel = r.Channel
	c.Tier = r.Tier
	c.Phone = r.Phone
	c.Email = r.Email
	c.Version = r.Version
}

// --- Response DTOs ---

// CustomerResponse is the API representation of a customer.
type CustomerResponse struct {
	BaseResponse
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Channel pricing.Channel `json:"channel"`
	Tier    string          `json:"tier"`
	Phone   *string         `json:"phone,omitempty"`
	Email   *string         `json:"email,omitempty"`
}

// FromCustomer maps a customer to the response DTO.
func FromCustomer(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		BaseResponse: FromBaseEntity(c.BaseEntity),
		Code:         c.Code,
		Name:         c.Name,
		Channel:      c.Channel,
		Tier:         c.Tier,
		Phone:        c.Phone,
		Email:        c.Email,
	}
}
