package repository

import (
	"context"

	"github.com/ojosproject/iris-store/internal/domain"
	apperrors "github.com/ojosproject/iris-store/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MedicationRepository handles medication persistence.
type MedicationRepository struct {
	store *Store
}

func NewMedicationRepository(store *Store) *MedicationRepository {
	return &MedicationRepository{store: store}
}

// Put inserts or replaces a medication by id.
func (r *MedicationRepository) Put(ctx context.Context, med *domain.Medication) error {
	return r.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(med).Error
	})
}

// GetByID returns the medication or a typed not-found error.
func (r *MedicationRepository) GetByID(ctx context.Context, id string) (*domain.Medication, error) {
	var med domain.Medication
	if err := r.store.db.WithContext(ctx).Where("id = ?", id).First(&med).Error; err != nil {
		return nil, notFound(err, "MEDICATION_NOT_FOUND", "medication not found")
	}
	return &med, nil
}

// List returns all medications in stable creation order.
func (r *MedicationRepository) List(ctx context.Context) ([]domain.Medication, error) {
	meds := []domain.Medication{}
	if err := r.store.db.WithContext(ctx).
		Order("created_at ASC").Order("id ASC").
		Find(&meds).Error; err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return meds, nil
}
