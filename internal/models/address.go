package models

import (
	"time"

	"github.com/google/uuid"
)

type AddressType string

const (
	AddressTypeHome   AddressType = "Home"
	AddressTypeOffice AddressType = "Office"
)

// Address is a buyer shipping address. Phone numbers carry the "+91 " prefix,
// pin codes are exactly six digits; both enforced by the inphone/pincode
// validator rules before anything is persisted.
type Address struct {
	ID             uuid.UUID   `json:"id"`
	UserID         uuid.UUID   `json:"user_id"`
	Name           string      `json:"name"`
	PhoneNumber    string      `json:"phone_number"`
	PinCode        string      `json:"pin_code"`
	Locality       string      `json:"locality"`
	Address        string      `json:"address"`
	City           string      `json:"city"`
	State          string      `json:"state"`
	Landmark       string      `json:"landmark,omitempty"`
	AlternatePhone string      `json:"alternate_phone,omitempty"`
	AddressType    AddressType `json:"address_type"`
	IsDefault      bool        `json:"is_default"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type AddAddressRequest struct {
	Name           string      `json:"name" validate:"required"`
	PhoneNumber    string      `json:"phone_number" validate:"required,inphone"`
	PinCode        string      `json:"pin_code" validate:"required,pincode"`
	Locality       string      `json:"locality" validate:"required"`
	Address        string      `json:"address" validate:"required"`
	City           string      `json:"city" validate:"required"`
	State          string      `json:"state" validate:"required"`
	Landmark       string      `json:"landmark,omitempty"`
	AlternatePhone string      `json:"alternate_phone,omitempty" validate:"omitempty,inphone"`
	AddressType    AddressType `json:"address_type" validate:"required,oneof=Home Office"`
	IsDefault      bool        `json:"is_default"`
}

type EditAddressRequest struct {
	ID uuid.UUID `json:"id" validate:"required"`
	AddAddressRequest
}

type AddressListResponse struct {
	Addresses       []Address `json:"addresses"`
	SelectedAddress *Address  `json:"selected_address,omitempty"`
}

type AddAddressResponse struct {
	Address         *Address `json:"address"`
	SelectedAddress *Address `json:"selected_address"`
}
