package services

import (
	"context"
	"time"

	"github.com/ojosproject/iris-store/internal/domain"
	apperrors "github.com/ojosproject/iris-store/internal/errors"
	"github.com/ojosproject/iris-store/internal/repository"
)

// CreateContactInput is the raw input bundle for creating a contact.
type CreateContactInput struct {
	Name         string             `json:"name"`
	ContactType  domain.ContactType `json:"contact_type"`
	EnabledRelay bool               `json:"enabled_relay"`
	PhoneNumber  *string            `json:"phone_number,omitempty"`
	Email        *string            `json:"email,omitempty"`
}

// ContactService creates and reads contacts.
type ContactService struct {
	contacts *repository.ContactRepository
	now      func() int64
}

func NewContactService(contacts *repository.ContactRepository) *ContactService {
	return &ContactService{
		contacts: contacts,
		now:      func() int64 { return time.Now().Unix() },
	}
}

// CreateContact validates the input and persists a new contact. The
// contact's type is fixed from here on.
func (s *ContactService) CreateContact(ctx context.Context, input CreateContactInput) (*domain.Contact, error) {
	contact := &domain.Contact{
		ID:           domain.NewID(),
		FullName:     input.Name,
		PhoneNumber:  input.PhoneNumber,
		Email:        input.Email,
		TypeOf:       input.ContactType,
		EnabledRelay: input.EnabledRelay,
		CreatedAt:    s.now(),
	}
	if err := domain.ValidateContact(*contact); err != nil {
		return nil, apperrors.NewValidationError("INVALID_CONTACT", err.Error())
	}
	if err := s.contacts.Put(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// GetContact returns a single contact or a typed not-found error. The
// "always a sequence" shape the interface expects is applied at the
// command edge, not here.
func (s *ContactService) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	return s.contacts.GetByID(ctx, id)
}

// ListContacts returns every contact in stable creation order.
func (s *ContactService) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	return s.contacts.List(ctx)
}
