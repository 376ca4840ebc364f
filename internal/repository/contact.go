package repository

import (
	"context"

	"github.com/ojosproject/iris-store/internal/domain"
	apperrors "github.com/ojosproject/iris-store/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContactRepository handles contact persistence.
type ContactRepository struct {
	store *Store
}

func NewContactRepository(store *Store) *ContactRepository {
	return &ContactRepository{store: store}
}

// Put inserts or replaces a contact by id.
func (r *ContactRepository) Put(ctx context.Context, contact *domain.Contact) error {
	return r.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(contact).Error
	})
}

// GetByID returns the contact or a typed not-found error.
func (r *ContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	var contact domain.Contact
	if err := r.store.db.WithContext(ctx).Where("id = ?", id).First(&contact).Error; err != nil {
		return nil, notFound(err, "CONTACT_NOT_FOUND", "contact not found")
	}
	return &contact, nil
}

// List returns all contacts in stable creation order.
func (r *ContactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	contacts := []domain.Contact{}
	if err := r.store.db.WithContext(ctx).
		Order("created_at ASC").Order("id ASC").
		Find(&contacts).Error; err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return contacts, nil
}
