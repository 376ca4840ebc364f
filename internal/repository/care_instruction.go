package repository

import (
	"context"

	"github.com/ojosproject/iris-store/internal/domain"
	apperrors "github.com/ojosproject/iris-store/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CareInstructionRepository handles care instruction persistence.
type CareInstructionRepository struct {
	store *Store
}

func NewCareInstructionRepository(store *Store) *CareInstructionRepository {
	return &CareInstructionRepository{store: store}
}

// Put inserts or replaces a care instruction by id.
func (r *CareInstructionRepository) Put(ctx context.Context, instruction *domain.CareInstruction) error {
	return r.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(instruction).Error
	})
}

// GetByID returns the care instruction or a typed not-found error.
func (r *CareInstructionRepository) GetByID(ctx context.Context, id string) (*domain.CareInstruction, error) {
	var instruction domain.CareInstruction
	if err := r.store.db.WithContext(ctx).Where("id = ?", id).First(&instruction).Error; err != nil {
		return nil, notFound(err, "CARE_INSTRUCTION_NOT_FOUND", "care instruction not found")
	}
	return &instruction, nil
}

// List returns all care instructions in stable creation order.
func (r *CareInstructionRepository) List(ctx context.Context) ([]domain.CareInstruction, error) {
	instructions := []domain.CareInstruction{}
	if err := r.store.db.WithContext(ctx).
		Order("created_at ASC").Order("id ASC").
		Find(&instructions).Error; err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return instructions, nil
}
