package domain

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// contactTypeRule rejects values outside the ContactType enum.
var contactTypeRule = validation.By(func(value interface{}) error {
	t, _ := value.(ContactType)
	if !t.Valid() {
		return validation.NewError("validation_contact_type", "must be one of PATIENT, NURSE, CAREGIVER")
	}
	return nil
})

// ValidateContact checks the schema-level constraints on a contact before
// it reaches storage.
func ValidateContact(c Contact) error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&c.TypeOf, validation.Required, contactTypeRule),
		validation.Field(&c.Email, validation.When(c.Email != nil, is.Email)),
	)
}

// ValidateMedication checks the schema-level constraints on a medication.
// Referential checks (prescriber existence and role) belong to the
// integrity layer, not here.
func ValidateMedication(m Medication) error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required),
		validation.Field(&m.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&m.Strength, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&m.Units, validation.Required),
		validation.Field(&m.Quantity, validation.Min(0)),
	)
}

// ValidateMedicationLog checks the schema-level constraints on a dose log.
func ValidateMedicationLog(l MedicationLog) error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.ID, validation.Required),
		validation.Field(&l.MedicationID, validation.Required),
		validation.Field(&l.Timestamp, validation.Required, validation.Min(int64(1))),
		validation.Field(&l.Strength, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&l.Units, validation.Required),
	)
}

// ValidateCareInstruction checks the schema-level constraints on a care
// instruction.
func ValidateCareInstruction(ci CareInstruction) error {
	return validation.ValidateStruct(&ci,
		validation.Field(&ci.ID, validation.Required),
		validation.Field(&ci.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&ci.Content, validation.Required),
	)
}
