package models

import (
	"strings"
	"time"
)

// Customer represents a customer record
type Customer struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	Address     *string   `json:"address,omitempty"`
	City        *string   `json:"city,omitempty"`
	State       *string   `json:"state,omitempty"`
	Country     *string   `json:"country,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Clone returns a deep copy so callers cannot mutate stored state
func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	out := *c
	out.PhoneNumber = cloneString(c.PhoneNumber)
	out.Address = cloneString(c.Address)
	out.City = cloneString(c.City)
	out.State = cloneString(c.State)
	out.Country = cloneString(c.Country)
	return &out
}

// SearchText joins the fields covered by the list search
func (c *Customer) SearchText() string {
	parts := []string{c.FirstName, c.LastName, c.Email}
	for _, p := range []*string{c.City, c.State, c.Country} {
		if p != nil {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, " ")
}

// CustomerFilter holds filtering options for listing customers
type CustomerFilter struct {
	Search string
}

// CreateCustomerInput is a validated payload for creating a customer
type CreateCustomerInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber *string
	Address     *string
	City        *string
	State       *string
	Country     *string
}

// UpdateCustomerInput is a validated partial payload. Nil required fields
// are left untouched; optional fields carry their own presence flag.
type UpdateCustomerInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber OptionalString
	Address     OptionalString
	City        OptionalString
	State       OptionalString
	Country     OptionalString
}

// Apply copies every present field onto the customer
func (u *UpdateCustomerInput) Apply(c *Customer) {
	if u.FirstName != nil {
		c.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		c.LastName = *u.LastName
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	u.PhoneNumber.applyTo(&c.PhoneNumber)
	u.Address.applyTo(&c.Address)
	u.City.applyTo(&c.City)
	u.State.applyTo(&c.State)
	u.Country.applyTo(&c.Country)
}

// OptionalString distinguishes an absent field from an explicit null.
// Set=false means absent; Set=true with a nil Value means null.
type OptionalString struct {
	Set   bool
	Value *string
}

// Some returns a present, non-null OptionalString
func Some(v string) OptionalString {
	return OptionalString{Set: true, Value: &v}
}

// Null returns a present OptionalString holding null
func Null() OptionalString {
	return OptionalString{Set: true}
}

func (o OptionalString) applyTo(dst **string) {
	if !o.Set {
		return
	}
	*dst = cloneString(o.Value)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
