package services

import (
	"context"
	"time"

	"github.com/ojosproject/iris-store/internal/domain"
	apperrors "github.com/ojosproject/iris-store/internal/errors"
	"github.com/ojosproject/iris-store/internal/repository"
)

// CreateCareInstructionInput is the raw input bundle for a new care
// instruction.
type CreateCareInstructionInput struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Frequency *string `json:"frequency,omitempty"`
	AddedBy   string  `json:"added_by"`
}

// UpdateCareInstructionInput carries edits to an existing instruction.
type UpdateCareInstructionInput struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Frequency *string `json:"frequency,omitempty"`
}

// CareInstructionService creates, edits and reads care instructions.
type CareInstructionService struct {
	instructions *repository.CareInstructionRepository
	now          func() int64
}

func NewCareInstructionService(instructions *repository.CareInstructionRepository) *CareInstructionService {
	return &CareInstructionService{
		instructions: instructions,
		now:          func() int64 { return time.Now().Unix() },
	}
}

// CreateCareInstruction validates the input and persists a new
// instruction.
func (s *CareInstructionService) CreateCareInstruction(ctx context.Context, input CreateCareInstructionInput) (*domain.CareInstruction, error) {
	now := s.now()
	instruction := &domain.CareInstruction{
		ID:          domain.NewID(),
		Title:       input.Title,
		Content:     input.Content,
		Frequency:   input.Frequency,
		AddedBy:     input.AddedBy,
		CreatedAt:   now,
		LastUpdated: now,
	}
	if err := domain.ValidateCareInstruction(*instruction); err != nil {
		return nil, apperrors.NewValidationError("INVALID_CARE_INSTRUCTION", err.Error())
	}
	if err := s.instructions.Put(ctx, instruction); err != nil {
		return nil, err
	}
	return instruction, nil
}

// UpdateCareInstruction replaces the editable fields of an existing
// instruction and bumps last_updated.
func (s *CareInstructionService) UpdateCareInstruction(ctx context.Context, input UpdateCareInstructionInput) (*domain.CareInstruction, error) {
	instruction, err := s.instructions.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	instruction.Title = input.Title
	instruction.Content = input.Content
	instruction.Frequency = input.Frequency
	instruction.LastUpdated = s.now()

	if err := domain.ValidateCareInstruction(*instruction); err != nil {
		return nil, apperrors.NewValidationError("INVALID_CARE_INSTRUCTION", err.Error())
	}
	if err := s.instructions.Put(ctx, instruction); err != nil {
		return nil, err
	}
	return instruction, nil
}

// GetCareInstruction returns a single instruction or a typed not-found
// error.
func (s *CareInstructionService) GetCareInstruction(ctx context.Context, id string) (*domain.CareInstruction, error) {
	return s.instructions.GetByID(ctx, id)
}

// ListCareInstructions returns every care instruction in stable creation
// order.
func (s *CareInstructionService) ListCareInstructions(ctx context.Context) ([]domain.CareInstruction, error) {
	return s.instructions.List(ctx)
}
