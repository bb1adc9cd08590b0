// Package customer provides the Customer catalog.
package customer

import (
	"context"

	"tilepos/internal/core/apperror"
	"tilepos/internal/core/entity"
	"tilepos/internal/domain/pricing"
)

// Tier groups customers for price-list applicability rules.
// Free-form by design: tiers are configured per installation.
type Tier = string

// Customer represents a buyer with a sales channel and tier.
type Customer struct {
	entity.Catalog

	// Channel selects which margin configuration applies when the price
	// waterfall falls back to margin-adjusted cost
	Channel pricing.Channel `db:"channel" json:"channel"`

	// Tier is the customer's pricing tier (e.g. "standard", "gold")
	Tier Tier `db:"tier" json:"tier"`

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email is the primary contact email
	Email *string `db:"email" json:"email,omitempty"`
}

// NewCustomer creates a new Customer with required fields.
func NewCustomer(code, name string, channel pricing.Channel) *Customer {
	return &Customer{
		Catalog: entity.NewCatalog(code, name),
		Channel: channel,
		Tier:    "standard",
	}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !c.Channel.Valid() {
		return apperror.NewValidation("invalid sales channel").
			WithDetail("field", "channel").
			WithDetail("value", string(c.Channel))
	}

	return nil
}

// PricingCustomer projects the fields the price resolver needs.
func (c *Customer) PricingCustomer() pricing.Customer {
	return pricing.Customer{
		ID:      c.ID,
		Channel: c.Channel,
		Tier:    c.Tier,
	}
}
