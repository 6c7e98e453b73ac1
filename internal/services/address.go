package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/checkout"
	"github.com/kartverse/storefront/internal/errors"
	"github.com/kartverse/storefront/internal/models"
	repository "github.com/kartverse/storefront/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
)

// AddressService is the address store contract: CRUD plus the single
// "selected" pointer per buyer. Mutations are never optimistic; a failed
// call leaves stored state untouched.
type AddressService interface {
	List(ctx context.Context, userID uuid.UUID) (*models.AddressListResponse, error)
	Add(ctx context.Context, userID uuid.UUID, req *models.AddAddressRequest) (*models.AddAddressResponse, error)
	Edit(ctx context.Context, userID uuid.UUID, req *models.EditAddressRequest) (*models.Address, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	Select(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
}

type addressService struct {
	repo      repository.AddressRepository
	sessions  repository.CheckoutSessionRepository
	sanitizer *bluemonday.Policy
}

func NewAddressService(repo repository.AddressRepository, sessions repository.CheckoutSessionRepository) AddressService {
	return &addressService{
		repo:      repo,
		sessions:  sessions,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *addressService) List(ctx context.Context, userID uuid.UUID) (*models.AddressListResponse, error) {

	addresses, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch addresses").WithError(err)
	}

	selected, err := s.repo.GetSelectedAddress(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch selected address").WithError(err)
	}

	return &models.AddressListResponse{
		Addresses:       addresses,
		SelectedAddress: selected,
	}, nil
}

// Add stores a new address and makes it the selected one.
func (s *addressService) Add(ctx context.Context, userID uuid.UUID, req *models.AddAddressRequest) (*models.AddAddressResponse, error) {

	address := s.fromRequest(userID, req)

	if err := s.repo.CreateAddress(ctx, address); err != nil {
		return nil, errors.DatabaseError("Failed to save address").WithError(err)
	}

	if err := s.repo.SetSelectedAddress(ctx, userID, &address.ID); err != nil {
		return nil, errors.DatabaseError("Failed to select the new address").WithError(err)
	}

	s.leaveSection(ctx, userID, checkout.SectionNewAddress)

	return &models.AddAddressResponse{
		Address:         address,
		SelectedAddress: address,
	}, nil
}

// Edit updates the address in place and re-selects it.
func (s *addressService) Edit(ctx context.Context, userID uuid.UUID, req *models.EditAddressRequest) (*models.Address, error) {

	address := s.fromRequest(userID, &req.AddAddressRequest)
	address.ID = req.ID

	if err := s.repo.UpdateAddress(ctx, address); err != nil {
		if err == repository.ErrAddressNotFound {
			return nil, errors.NotFoundError("Address not found")
		}

		return nil, errors.DatabaseError("Failed to update address").WithError(err)
	}

	if err := s.repo.SetSelectedAddress(ctx, userID, &address.ID); err != nil {
		return nil, errors.DatabaseError("Failed to select the edited address").WithError(err)
	}

	s.leaveSection(ctx, userID, checkout.SectionEditAddress)

	return address, nil
}

// Delete removes the address; when it was selected, the repository moves the
// selection to the oldest remaining address or clears it.
func (s *addressService) Delete(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {

	newSelected, err := s.repo.DeleteAddress(ctx, userID, addressID)
	if err != nil {
		if err == repository.ErrAddressNotFound {
			return nil, errors.NotFoundError("Address not found")
		}

		return nil, errors.DatabaseError("Failed to delete address").WithError(err)
	}

	if newSelected == nil {
		// Deleting a non-selected address keeps the current selection.
		newSelected, err = s.repo.GetSelectedAddress(ctx, userID)
		if err != nil {
			return nil, errors.DatabaseError("Failed to fetch selected address").WithError(err)
		}
	}

	return newSelected, nil
}

func (s *addressService) Select(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {

	address, err := s.repo.GetAddressByID(ctx, userID, addressID)
	if err != nil {
		if err == repository.ErrAddressNotFound {
			return nil, errors.NotFoundError("Address not found")
		}

		return nil, errors.DatabaseError("Failed to fetch address").WithError(err)
	}

	if err := s.repo.SetSelectedAddress(ctx, userID, &address.ID); err != nil {
		return nil, errors.DatabaseError("Failed to select address").WithError(err)
	}

	return address, nil
}

func (s *addressService) fromRequest(userID uuid.UUID, req *models.AddAddressRequest) *models.Address {
	return &models.Address{
		UserID:         userID,
		Name:           s.sanitizer.Sanitize(req.Name),
		PhoneNumber:    req.PhoneNumber,
		PinCode:        req.PinCode,
		Locality:       s.sanitizer.Sanitize(req.Locality),
		Address:        s.sanitizer.Sanitize(req.Address),
		City:           s.sanitizer.Sanitize(req.City),
		State:          s.sanitizer.Sanitize(req.State),
		Landmark:       s.sanitizer.Sanitize(req.Landmark),
		AlternatePhone: req.AlternatePhone,
		AddressType:    req.AddressType,
		IsDefault:      req.IsDefault,
	}
}

// leaveSection closes the checkout step that triggered this mutation. The
// address change already succeeded, so a session store failure only logs.
func (s *addressService) leaveSection(ctx context.Context, userID uuid.UUID, section checkout.Section) {

	session, err := s.sessions.GetSession(ctx, userID)
	if err != nil || session == nil {
		return
	}

	session.Gate.Leave(section)

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		slog.Warn("Failed to update checkout session after address change",
			slog.String("userId", userID.String()), slog.Any("error", err))
	}
}
