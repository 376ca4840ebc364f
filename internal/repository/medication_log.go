package repository

import (
	"context"

	"github.com/ojosproject/iris-store/internal/domain"
	apperrors "github.com/ojosproject/iris-store/internal/errors"
	"gorm.io/gorm"
)

// DefaultLogPageSize matches the page size the interface consumes when it
// loads more entries on scroll.
const DefaultLogPageSize = 5

// MedicationLogRepository handles the append-only dose log. Entries are
// only ever added; nothing here updates or deletes a written log.
type MedicationLogRepository struct {
	store *Store
}

func NewMedicationLogRepository(store *Store) *MedicationLogRepository {
	return &MedicationLogRepository{store: store}
}

// Append writes a log entry inside an existing transaction, assigning the
// next insertion sequence number. Callers own the transaction so the entry
// commits together with the medication it belongs to.
func Append(tx *gorm.DB, entry *domain.MedicationLog) error {
	entry.Seq = nextSeq(tx)
	return tx.Create(entry).Error
}

// nextSeq returns the next store-wide insertion counter value. Runs inside
// the caller's write transaction, so two appends can never draw the same
// value.
func nextSeq(tx *gorm.DB) int64 {
	var max int64
	tx.Model(&domain.MedicationLog{}).Select("COALESCE(MAX(seq), 0)").Scan(&max)
	return max + 1
}

// PageByMedication returns up to limit entries for the medication, most
// recent timestamp first, starting at offset. Ties on timestamp keep
// insertion order, oldest-inserted first, so repeated paging with a quiet
// store reconstructs the full set with no duplicates and no gaps. An
// exhausted window yields a short or empty page, never an error.
func (r *MedicationLogRepository) PageByMedication(ctx context.Context, medicationID string, offset, limit int) ([]domain.MedicationLog, error) {
	if limit <= 0 {
		limit = DefaultLogPageSize
	}
	if offset < 0 {
		offset = 0
	}

	logs := []domain.MedicationLog{}
	if err := r.store.db.WithContext(ctx).
		Where("medication_id = ?", medicationID).
		Order("timestamp DESC").Order("seq ASC").
		Offset(offset).Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return logs, nil
}
