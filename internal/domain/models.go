package domain

import (
	"github.com/google/uuid"
)

// ContactType classifies a contact's role in the care circle.
type ContactType string

const (
	ContactTypePatient   ContactType = "PATIENT"
	ContactTypeNurse     ContactType = "NURSE"
	ContactTypeCaregiver ContactType = "CAREGIVER"
)

// Valid reports whether t is one of the known contact types.
func (t ContactType) Valid() bool {
	switch t {
	case ContactTypePatient, ContactTypeNurse, ContactTypeCaregiver:
		return true
	}
	return false
}

// Contact represents a person in the care circle. TypeOf is fixed at
// creation and never changes afterwards.
type Contact struct {
	ID           string      `gorm:"primaryKey;column:id" json:"id"`
	FullName     string      `gorm:"column:full_name;not null" json:"full_name"`
	PhoneNumber  *string     `gorm:"column:phone_number" json:"phone_number,omitempty"`
	Email        *string     `gorm:"column:email" json:"email,omitempty"`
	TypeOf       ContactType `gorm:"column:type_of;not null;index" json:"type_of"`
	EnabledRelay bool        `gorm:"column:enabled_relay;not null" json:"enabled_relay"`
	CreatedAt    int64       `gorm:"column:created_at;not null" json:"created_at"`
}

func (Contact) TableName() string {
	return "contact"
}

// Medication is a prescribed or over-the-counter medication being tracked.
// Quantity only decreases through logged dose events. LastTaken mirrors the
// timestamp of the most recent log and is absent while no logs exist.
// All timestamps are unix seconds.
type Medication struct {
	ID           string  `gorm:"primaryKey;column:id" json:"id"`
	Name         string  `gorm:"column:name;not null;index" json:"name"`
	GenericName  *string `gorm:"column:generic_name" json:"generic_name,omitempty"`
	DosageType   string  `gorm:"column:dosage_type;not null" json:"dosage_type"`
	Strength     float64 `gorm:"column:strength;not null" json:"strength"`
	Units        string  `gorm:"column:units;not null" json:"units"`
	Quantity     int     `gorm:"column:quantity;not null" json:"quantity"`
	Icon         string  `gorm:"column:icon" json:"icon"`
	CreatedAt    int64   `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    int64   `gorm:"column:updated_at;not null" json:"updated_at"`
	LastTaken    *int64  `gorm:"column:last_taken" json:"last_taken,omitempty"`
	PrescriberID *string `gorm:"column:prescriber_id;index" json:"prescriber_id,omitempty"`
}

func (Medication) TableName() string {
	return "medication"
}

// MedicationLog is a single recorded dose. Logs are append-only and
// immutable once written. Seq is a store-wide insertion counter used to
// break ties between logs that share a timestamp.
type MedicationLog struct {
	ID           string  `gorm:"primaryKey;column:id" json:"id"`
	MedicationID string  `gorm:"column:medication_id;not null;index" json:"medication_id"`
	Timestamp    int64   `gorm:"column:timestamp;not null;index" json:"timestamp"`
	Strength     float64 `gorm:"column:strength;not null" json:"strength"`
	Units        string  `gorm:"column:units;not null" json:"units"`
	Comments     *string `gorm:"column:comments" json:"comments,omitempty"`
	Seq          int64   `gorm:"column:seq;not null;index" json:"-"`
}

func (MedicationLog) TableName() string {
	return "medication_log"
}

// CareInstruction is a standalone note describing how to care for the
// patient. It carries no references to other entities.
type CareInstruction struct {
	ID          string  `gorm:"primaryKey;column:id" json:"id"`
	Title       string  `gorm:"column:title;not null" json:"title"`
	Content     string  `gorm:"column:content;not null" json:"content"`
	Frequency   *string `gorm:"column:frequency" json:"frequency,omitempty"`
	AddedBy     string  `gorm:"column:added_by" json:"added_by"`
	CreatedAt   int64   `gorm:"column:created_at;not null" json:"created_at"`
	LastUpdated int64   `gorm:"column:last_updated;not null" json:"last_updated"`
}

func (CareInstruction) TableName() string {
	return "care_instruction"
}

// NewID returns a fresh opaque identifier. IDs are random 128-bit values
// encoded as strings, collision-free for the lifetime of the store.
func NewID() string {
	return uuid.NewString()
}
