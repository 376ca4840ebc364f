package services

import (
	"context"
	"errors"
	"time"

	"github.com/ojosproject/iris-store/internal/domain"
	apperrors "github.com/ojosproject/iris-store/internal/errors"
	"github.com/ojosproject/iris-store/internal/repository"
	"gorm.io/gorm"
)

// CreateMedicationInput is the raw input bundle for creating a medication.
type CreateMedicationInput struct {
	Name         string  `json:"name"`
	GenericName  *string `json:"generic_name,omitempty"`
	DosageType   string  `json:"dosage_type"`
	Strength     float64 `json:"strength"`
	Units        string  `json:"units"`
	Quantity     int     `json:"quantity"`
	Icon         string  `json:"icon"`
	PrescriberID *string `json:"prescriber_id,omitempty"`
}

// UpdateMedicationInput carries the fields a caller may change on an
// existing medication. Nil fields are left untouched. Quantity is not
// updatable here: it only moves through logged dose events.
type UpdateMedicationInput struct {
	ID           string   `json:"id"`
	Name         *string  `json:"name,omitempty"`
	GenericName  *string  `json:"generic_name,omitempty"`
	DosageType   *string  `json:"dosage_type,omitempty"`
	Strength     *float64 `json:"strength,omitempty"`
	Units        *string  `json:"units,omitempty"`
	Icon         *string  `json:"icon,omitempty"`
	PrescriberID *string  `json:"prescriber_id,omitempty"`
}

// LogDoseInput is the raw input bundle for recording a taken dose.
// Timestamp defaults to the current time when absent.
type LogDoseInput struct {
	MedicationID string  `json:"medication_id"`
	Strength     float64 `json:"strength"`
	Units        string  `json:"units"`
	Comments     *string `json:"comments,omitempty"`
	Timestamp    *int64  `json:"timestamp,omitempty"`
}

// MedicationService enforces the cross-entity invariants around
// medications and their dose log: prescriber references must point at a
// nurse, logs must reference an existing medication, quantity never goes
// negative, and last_taken always mirrors the newest log.
type MedicationService struct {
	store    *repository.Store
	meds     *repository.MedicationRepository
	logs     *repository.MedicationLogRepository
	contacts *repository.ContactRepository
	now      func() int64
}

func NewMedicationService(
	store *repository.Store,
	meds *repository.MedicationRepository,
	logs *repository.MedicationLogRepository,
	contacts *repository.ContactRepository,
) *MedicationService {
	return &MedicationService{
		store:    store,
		meds:     meds,
		logs:     logs,
		contacts: contacts,
		now:      func() int64 { return time.Now().Unix() },
	}
}

// CreateMedication validates the input, checks the prescriber reference
// and persists a new medication.
func (s *MedicationService) CreateMedication(ctx context.Context, input CreateMedicationInput) (*domain.Medication, error) {
	now := s.now()
	med := &domain.Medication{
		ID:           domain.NewID(),
		Name:         input.Name,
		GenericName:  input.GenericName,
		DosageType:   input.DosageType,
		Strength:     input.Strength,
		Units:        input.Units,
		Quantity:     input.Quantity,
		Icon:         input.Icon,
		CreatedAt:    now,
		UpdatedAt:    now,
		PrescriberID: input.PrescriberID,
	}
	if err := domain.ValidateMedication(*med); err != nil {
		return nil, apperrors.NewValidationError("INVALID_MEDICATION", err.Error())
	}
	if err := s.checkPrescriber(ctx, med.PrescriberID); err != nil {
		return nil, err
	}
	if err := s.meds.Put(ctx, med); err != nil {
		return nil, err
	}
	return med, nil
}

// UpdateMedication applies the given changes to an existing medication,
// re-checking the prescriber reference and bumping updated_at.
func (s *MedicationService) UpdateMedication(ctx context.Context, input UpdateMedicationInput) (*domain.Medication, error) {
	med, err := s.meds.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		med.Name = *input.Name
	}
	if input.GenericName != nil {
		med.GenericName = input.GenericName
	}
	if input.DosageType != nil {
		med.DosageType = *input.DosageType
	}
	if input.Strength != nil {
		med.Strength = *input.Strength
	}
	if input.Units != nil {
		med.Units = *input.Units
	}
	if input.Icon != nil {
		med.Icon = *input.Icon
	}
	if input.PrescriberID != nil {
		med.PrescriberID = input.PrescriberID
	}

	if err := domain.ValidateMedication(*med); err != nil {
		return nil, apperrors.NewValidationError("INVALID_MEDICATION", err.Error())
	}
	if err := s.checkPrescriber(ctx, med.PrescriberID); err != nil {
		return nil, err
	}

	med.UpdatedAt = s.now()
	if err := s.meds.Put(ctx, med); err != nil {
		return nil, err
	}
	return med, nil
}

// checkPrescriber verifies that a prescriber reference, when present,
// points at an existing contact of type NURSE.
func (s *MedicationService) checkPrescriber(ctx context.Context, prescriberID *string) error {
	if prescriberID == nil {
		return nil
	}
	contact, err := s.contacts.GetByID(ctx, *prescriberID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return apperrors.NewIntegrityError("UNKNOWN_PRESCRIBER", "prescriber_id does not reference an existing contact")
		}
		return err
	}
	if contact.TypeOf != domain.ContactTypeNurse {
		return apperrors.NewIntegrityError("PRESCRIBER_NOT_NURSE", "prescriber_id must reference a contact of type NURSE")
	}
	return nil
}

// LogDose records a taken dose. The log append and the medication update
// (quantity decrement, last_taken, updated_at) commit in one transaction:
// they succeed or fail together, and a rejected dose leaves the
// medication untouched.
func (s *MedicationService) LogDose(ctx context.Context, input LogDoseInput) (*domain.MedicationLog, error) {
	entry := &domain.MedicationLog{
		ID:           domain.NewID(),
		MedicationID: input.MedicationID,
		Strength:     input.Strength,
		Units:        input.Units,
		Comments:     input.Comments,
	}
	if input.Timestamp != nil {
		entry.Timestamp = *input.Timestamp
	} else {
		entry.Timestamp = s.now()
	}
	if err := domain.ValidateMedicationLog(*entry); err != nil {
		return nil, apperrors.NewValidationError("INVALID_LOG", err.Error())
	}

	err := s.store.Write(ctx, func(tx *gorm.DB) error {
		var med domain.Medication
		if err := tx.Where("id = ?", input.MedicationID).First(&med).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewIntegrityError("UNKNOWN_MEDICATION", "medication_id does not reference an existing medication")
			}
			return err
		}

		if entry.Timestamp < med.CreatedAt {
			return apperrors.NewIntegrityError("LOG_BEFORE_MEDICATION", "log timestamp precedes the medication's creation")
		}
		if med.Quantity < 1 {
			return apperrors.NewIntegrityError("QUANTITY_EXHAUSTED", "dose would drive the medication quantity below zero")
		}

		if err := repository.Append(tx, entry); err != nil {
			return err
		}

		// last_taken is the max log timestamp, so an out-of-order
		// append never moves it backwards.
		lastTaken := entry.Timestamp
		if med.LastTaken != nil && *med.LastTaken > lastTaken {
			lastTaken = *med.LastTaken
		}

		return tx.Model(&domain.Medication{}).Where("id = ?", med.ID).
			Updates(map[string]interface{}{
				"quantity":   med.Quantity - 1,
				"last_taken": lastTaken,
				"updated_at": s.now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetMedication returns a single medication or a typed not-found error.
func (s *MedicationService) GetMedication(ctx context.Context, id string) (*domain.Medication, error) {
	return s.meds.GetByID(ctx, id)
}

// ListMedications returns every medication in stable creation order.
func (s *MedicationService) ListMedications(ctx context.Context) ([]domain.Medication, error) {
	return s.meds.List(ctx)
}

// GetLogs returns one page of the medication's dose log, newest timestamp
// first. Offsets are plain windows over the entries visible at call time,
// not snapshots: an append between two calls shifts the window.
func (s *MedicationService) GetLogs(ctx context.Context, medicationID string, offset, limit int) ([]domain.MedicationLog, error) {
	return s.logs.PageByMedication(ctx, medicationID, offset, limit)
}

// DeleteMedication removes a medication. While logs still reference it the
// delete is blocked unless cascade is set, in which case the logs are
// removed in the same transaction.
func (s *MedicationService) DeleteMedication(ctx context.Context, id string, cascade bool) error {
	return s.store.Write(ctx, func(tx *gorm.DB) error {
		var med domain.Medication
		if err := tx.Where("id = ?", id).First(&med).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("MEDICATION_NOT_FOUND", "medication not found")
			}
			return err
		}

		var count int64
		if err := tx.Model(&domain.MedicationLog{}).Where("medication_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			if !cascade {
				return apperrors.NewIntegrityError("MEDICATION_HAS_LOGS", "medication still has dose logs; delete with cascade to remove them")
			}
			if err := tx.Where("medication_id = ?", id).Delete(&domain.MedicationLog{}).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", id).Delete(&domain.Medication{}).Error
	})
}
