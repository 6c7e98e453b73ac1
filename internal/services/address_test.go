package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/checkout"
	appErrors "github.com/kartverse/storefront/internal/errors"
	"github.com/kartverse/storefront/internal/models"
	repository "github.com/kartverse/storefront/internal/repositories"
	"github.com/kartverse/storefront/internal/repositories/mocks"
	service "github.com/kartverse/storefront/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAddressFixture() (*mocks.AddressRepository, *mocks.CheckoutSessionRepository, service.AddressService) {
	repo := &mocks.AddressRepository{}
	sessions := &mocks.CheckoutSessionRepository{}
	svc := service.NewAddressService(repo, sessions)

	return repo, sessions, svc
}

func validAddAddressRequest() *models.AddAddressRequest {
	return &models.AddAddressRequest{
		Name:        "Priya Sharma",
		PhoneNumber: "+91 9876543210",
		PinCode:     "560001",
		Locality:    "Indiranagar",
		Address:     "221B 12th Main Road",
		City:        "Bengaluru",
		State:       "Karnataka",
		AddressType: models.AddressTypeHome,
	}
}

func TestAddAddress(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("New address becomes the selection", func(t *testing.T) {
		repo, sessions, svc := newAddressFixture()
		repo.On("CreateAddress", ctx, mock.AnythingOfType("*models.Address")).Return(nil).Once()
		repo.On("SetSelectedAddress", ctx, userID, mock.AnythingOfType("*uuid.UUID")).Return(nil).Once()
		sessions.On("GetSession", ctx, userID).Return(nil, nil).Once()

		result, err := svc.Add(ctx, userID, validAddAddressRequest())

		require.NoError(t, err)
		assert.Equal(t, result.Address, result.SelectedAddress)
		assert.Equal(t, userID, result.Address.UserID)
		repo.AssertExpectations(t)
	})

	t.Run("Releases the new-address checkout step", func(t *testing.T) {
		repo, sessions, svc := newAddressFixture()
		session := checkout.NewSession(userID)
		require.True(t, session.Gate.TryEnter(checkout.SectionNewAddress))

		repo.On("CreateAddress", ctx, mock.AnythingOfType("*models.Address")).Return(nil).Once()
		repo.On("SetSelectedAddress", ctx, userID, mock.AnythingOfType("*uuid.UUID")).Return(nil).Once()
		sessions.On("GetSession", ctx, userID).Return(session, nil).Once()
		sessions.On("SaveSession", ctx, mock.MatchedBy(func(s *checkout.Session) bool {
			return !s.Gate.Locked()
		})).Return(nil).Once()

		_, err := svc.Add(ctx, userID, validAddAddressRequest())

		require.NoError(t, err)
		sessions.AssertExpectations(t)
	})

	t.Run("Free text is sanitized", func(t *testing.T) {
		repo, sessions, svc := newAddressFixture()
		var created *models.Address
		repo.On("CreateAddress", ctx, mock.AnythingOfType("*models.Address")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*models.Address) }).
			Return(nil).Once()
		repo.On("SetSelectedAddress", ctx, userID, mock.AnythingOfType("*uuid.UUID")).Return(nil).Once()
		sessions.On("GetSession", ctx, userID).Return(nil, nil).Once()

		req := validAddAddressRequest()
		req.Landmark = `next to <script>alert("x")</script> the park`

		_, err := svc.Add(ctx, userID, req)

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotContains(t, created.Landmark, "<script>")
	})
}

func TestEditAddress(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()

	t.Run("Edit re-selects the address", func(t *testing.T) {
		repo, sessions, svc := newAddressFixture()
		repo.On("UpdateAddress", ctx, mock.MatchedBy(func(a *models.Address) bool {
			return a.ID == addressID && a.UserID == userID
		})).Return(nil).Once()
		repo.On("SetSelectedAddress", ctx, userID, &addressID).Return(nil).Once()
		sessions.On("GetSession", ctx, userID).Return(nil, nil).Once()

		address, err := svc.Edit(ctx, userID, &models.EditAddressRequest{
			ID:                addressID,
			AddAddressRequest: *validAddAddressRequest(),
		})

		require.NoError(t, err)
		assert.Equal(t, addressID, address.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Unknown address", func(t *testing.T) {
		repo, _, svc := newAddressFixture()
		repo.On("UpdateAddress", ctx, mock.AnythingOfType("*models.Address")).
			Return(repository.ErrAddressNotFound).Once()

		address, err := svc.Edit(ctx, userID, &models.EditAddressRequest{
			ID:                addressID,
			AddAddressRequest: *validAddAddressRequest(),
		})

		assert.Nil(t, address)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestDeleteAddress(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()

	t.Run("Deleting the selected address promotes the oldest remaining", func(t *testing.T) {
		repo, _, svc := newAddressFixture()
		fallback := &models.Address{ID: uuid.New(), UserID: userID, Name: "Office"}
		repo.On("DeleteAddress", ctx, userID, addressID).Return(fallback, nil).Once()

		selected, err := svc.Delete(ctx, userID, addressID)

		require.NoError(t, err)
		assert.Equal(t, fallback.ID, selected.ID)
		repo.AssertNotCalled(t, "GetSelectedAddress", mock.Anything, mock.Anything)
	})

	t.Run("Deleting a non-selected address keeps the current selection", func(t *testing.T) {
		repo, _, svc := newAddressFixture()
		current := &models.Address{ID: uuid.New(), UserID: userID, Name: "Home"}
		repo.On("DeleteAddress", ctx, userID, addressID).Return(nil, nil).Once()
		repo.On("GetSelectedAddress", ctx, userID).Return(current, nil).Once()

		selected, err := svc.Delete(ctx, userID, addressID)

		require.NoError(t, err)
		assert.Equal(t, current.ID, selected.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Deleting the last address leaves no selection", func(t *testing.T) {
		repo, _, svc := newAddressFixture()
		repo.On("DeleteAddress", ctx, userID, addressID).Return(nil, nil).Once()
		repo.On("GetSelectedAddress", ctx, userID).Return(nil, nil).Once()

		selected, err := svc.Delete(ctx, userID, addressID)

		require.NoError(t, err)
		assert.Nil(t, selected)
	})

	t.Run("Unknown address", func(t *testing.T) {
		repo, _, svc := newAddressFixture()
		repo.On("DeleteAddress", ctx, userID, addressID).Return(nil, repository.ErrAddressNotFound).Once()

		selected, err := svc.Delete(ctx, userID, addressID)

		assert.Nil(t, selected)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestSelectAddress(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()

	t.Run("Ownership is checked before selection", func(t *testing.T) {
		repo, _, svc := newAddressFixture()
		repo.On("GetAddressByID", ctx, userID, addressID).Return(nil, repository.ErrAddressNotFound).Once()

		address, err := svc.Select(ctx, userID, addressID)

		assert.Nil(t, address)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		repo.AssertNotCalled(t, "SetSelectedAddress", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Selection persists the pointer", func(t *testing.T) {
		repo, _, svc := newAddressFixture()
		stored := &models.Address{ID: addressID, UserID: userID}
		repo.On("GetAddressByID", ctx, userID, addressID).Return(stored, nil).Once()
		repo.On("SetSelectedAddress", ctx, userID, &stored.ID).Return(nil).Once()

		address, err := svc.Select(ctx, userID, addressID)

		require.NoError(t, err)
		assert.Equal(t, addressID, address.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Database error surfaces", func(t *testing.T) {
		repo, _, svc := newAddressFixture()
		repo.On("GetAddressByID", ctx, userID, addressID).Return(nil, errors.New("timeout")).Once()

		_, err := svc.Select(ctx, userID, addressID)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}

func TestListAddresses(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Returns addresses with the selection", func(t *testing.T) {
		repo, _, svc := newAddressFixture()
		selected := &models.Address{ID: uuid.New(), UserID: userID}
		repo.On("ListAddresses", ctx, userID).Return([]models.Address{*selected}, nil).Once()
		repo.On("GetSelectedAddress", ctx, userID).Return(selected, nil).Once()

		list, err := svc.List(ctx, userID)

		require.NoError(t, err)
		assert.Len(t, list.Addresses, 1)
		assert.Equal(t, selected.ID, list.SelectedAddress.ID)
	})

	t.Run("No addresses yet", func(t *testing.T) {
		repo, _, svc := newAddressFixture()
		repo.On("ListAddresses", ctx, userID).Return([]models.Address{}, nil).Once()
		repo.On("GetSelectedAddress", ctx, userID).Return(nil, nil).Once()

		list, err := svc.List(ctx, userID)

		require.NoError(t, err)
		assert.Empty(t, list.Addresses)
		assert.Nil(t, list.SelectedAddress)
	})
}
