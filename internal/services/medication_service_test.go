package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ojosproject/iris-store/internal/config"
	"github.com/ojosproject/iris-store/internal/database"
	"github.com/ojosproject/iris-store/internal/domain"
	apperrors "github.com/ojosproject/iris-store/internal/errors"
	"github.com/ojosproject/iris-store/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseTime = int64(1700000000)

type testEnv struct {
	contacts     *ContactService
	medications  *MedicationService
	instructions *CareInstructionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(config.DBConfig{
		Backend: "sqlite",
		Path:    filepath.Join(t.TempDir(), "iris.db"),
	})
	require.NoError(t, err)

	store := repository.NewStore(db)
	contactRepo := repository.NewContactRepository(store)
	medicationRepo := repository.NewMedicationRepository(store)
	logRepo := repository.NewMedicationLogRepository(store)
	instructionRepo := repository.NewCareInstructionRepository(store)

	env := &testEnv{
		contacts:     NewContactService(contactRepo),
		medications:  NewMedicationService(store, medicationRepo, logRepo, contactRepo),
		instructions: NewCareInstructionService(instructionRepo),
	}
	// Deterministic clocks: entities are created at baseTime unless a
	// test injects something else.
	env.contacts.now = func() int64 { return baseTime }
	env.medications.now = func() int64 { return baseTime }
	env.instructions.now = func() int64 { return baseTime }
	return env
}

func (e *testEnv) createNurse(t *testing.T) *domain.Contact {
	t.Helper()
	nurse, err := e.contacts.CreateContact(context.Background(), CreateContactInput{
		Name:        "Dr. A",
		ContactType: domain.ContactTypeNurse,
	})
	require.NoError(t, err)
	return nurse
}

func (e *testEnv) createIbuprofen(t *testing.T, prescriberID *string) *domain.Medication {
	t.Helper()
	med, err := e.medications.CreateMedication(context.Background(), CreateMedicationInput{
		Name:         "Ibuprofen",
		DosageType:   "tablet",
		Strength:     200,
		Units:        "mg",
		Quantity:     30,
		Icon:         "pill",
		PrescriberID: prescriberID,
	})
	require.NoError(t, err)
	return med
}

func ts(offset int64) *int64 {
	v := baseTime + offset
	return &v
}

func TestLogDoseScenario(t *testing.T) {
	// Nurse prescribes 30 ibuprofen; three doses leave quantity 27,
	// last_taken at the third log, and the first page holds the two
	// newest entries.
	ctx := context.Background()
	env := newTestEnv(t)

	nurse := env.createNurse(t)
	med := env.createIbuprofen(t, &nurse.ID)
	assert.Nil(t, med.LastTaken)

	for _, offset := range []int64{10, 20, 30} {
		_, err := env.medications.LogDose(ctx, LogDoseInput{
			MedicationID: med.ID,
			Strength:     200,
			Units:        "mg",
			Timestamp:    ts(offset),
		})
		require.NoError(t, err)
	}

	got, err := env.medications.GetMedication(ctx, med.ID)
	require.NoError(t, err)
	assert.Equal(t, 27, got.Quantity)
	require.NotNil(t, got.LastTaken)
	assert.Equal(t, baseTime+30, *got.LastTaken)
	require.NotNil(t, got.PrescriberID)
	assert.Equal(t, nurse.ID, *got.PrescriberID)

	page, err := env.medications.GetLogs(ctx, med.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, baseTime+30, page[0].Timestamp)
	assert.Equal(t, baseTime+20, page[1].Timestamp)
}

func TestLogDoseRejectsExhaustedQuantity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	med, err := env.medications.CreateMedication(ctx, CreateMedicationInput{
		Name:     "Lorazepam",
		Strength: 1,
		Units:    "mg",
		Quantity: 1,
	})
	require.NoError(t, err)

	_, err = env.medications.LogDose(ctx, LogDoseInput{
		MedicationID: med.ID, Strength: 1, Units: "mg", Timestamp: ts(10),
	})
	require.NoError(t, err)

	_, err = env.medications.LogDose(ctx, LogDoseInput{
		MedicationID: med.ID, Strength: 1, Units: "mg", Timestamp: ts(20),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindIntegrity, apperrors.KindOf(err))
	assert.ErrorIs(t, err, apperrors.New(apperrors.KindIntegrity, "QUANTITY_EXHAUSTED", ""))

	// The rejected dose left the record unchanged.
	got, err := env.medications.GetMedication(ctx, med.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
	require.NotNil(t, got.LastTaken)
	assert.Equal(t, baseTime+10, *got.LastTaken)

	logs, err := env.medications.GetLogs(ctx, med.ID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestLogDoseUnknownMedication(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.medications.LogDose(ctx, LogDoseInput{
		MedicationID: "missing", Strength: 200, Units: "mg", Timestamp: ts(10),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindIntegrity, apperrors.KindOf(err))
	assert.ErrorIs(t, err, apperrors.New(apperrors.KindIntegrity, "UNKNOWN_MEDICATION", ""))
}

func TestLogDoseBeforeMedicationCreation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	med := env.createIbuprofen(t, nil)

	early := med.CreatedAt - 100
	_, err := env.medications.LogDose(ctx, LogDoseInput{
		MedicationID: med.ID, Strength: 200, Units: "mg", Timestamp: &early,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.New(apperrors.KindIntegrity, "LOG_BEFORE_MEDICATION", ""))

	got, err := env.medications.GetMedication(ctx, med.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Quantity)
	assert.Nil(t, got.LastTaken)
}

func TestLogDoseOutOfOrderKeepsLastTakenAtMax(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	med := env.createIbuprofen(t, nil)

	_, err := env.medications.LogDose(ctx, LogDoseInput{
		MedicationID: med.ID, Strength: 200, Units: "mg", Timestamp: ts(60),
	})
	require.NoError(t, err)

	// A dose recorded after the fact, with an older timestamp.
	_, err = env.medications.LogDose(ctx, LogDoseInput{
		MedicationID: med.ID, Strength: 200, Units: "mg", Timestamp: ts(30),
	})
	require.NoError(t, err)

	got, err := env.medications.GetMedication(ctx, med.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastTaken)
	assert.Equal(t, baseTime+60, *got.LastTaken)

	// Read-time sorting puts the newer timestamp first regardless of
	// insertion order.
	logs, err := env.medications.GetLogs(ctx, med.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, baseTime+60, logs[0].Timestamp)
	assert.Equal(t, baseTime+30, logs[1].Timestamp)
}

func TestPaginationReconstructsFullSet(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	med := env.createIbuprofen(t, nil)

	for i := int64(1); i <= 12; i++ {
		_, err := env.medications.LogDose(ctx, LogDoseInput{
			MedicationID: med.ID, Strength: 200, Units: "mg", Timestamp: ts(i),
		})
		require.NoError(t, err)
	}

	var collected []domain.MedicationLog
	for offset := 0; ; offset += 5 {
		page, err := env.medications.GetLogs(ctx, med.ID, offset, 5)
		require.NoError(t, err)
		collected = append(collected, page...)
		if len(page) < 5 {
			break
		}
	}

	require.Len(t, collected, 12)
	seen := map[string]bool{}
	for i, entry := range collected {
		assert.False(t, seen[entry.ID], "duplicate entry at index %d", i)
		seen[entry.ID] = true
		assert.Equal(t, baseTime+int64(12-i), entry.Timestamp)
	}
}

func TestPaginationTieBreakIsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	med := env.createIbuprofen(t, nil)

	var ids []string
	for i := 0; i < 3; i++ {
		entry, err := env.medications.LogDose(ctx, LogDoseInput{
			MedicationID: med.ID, Strength: 200, Units: "mg", Timestamp: ts(10),
		})
		require.NoError(t, err)
		ids = append(ids, entry.ID)
	}

	// Identical timestamps: insertion order breaks the tie,
	// oldest-inserted first, so paging one entry at a time is
	// deterministic.
	var paged []string
	for offset := 0; offset < 3; offset++ {
		page, err := env.medications.GetLogs(ctx, med.ID, offset, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		paged = append(paged, page[0].ID)
	}
	assert.Equal(t, ids, paged)
}

func TestPaginationWindowShiftsUnderAppend(t *testing.T) {
	// Offsets are not snapshots. When a new log lands between two
	// calls, the later window re-shows an entry the caller has already
	// seen. That is the documented trade-off of stateless offset
	// pagination, demonstrated here rather than hidden.
	ctx := context.Background()
	env := newTestEnv(t)
	med := env.createIbuprofen(t, nil)

	for i := int64(1); i <= 4; i++ {
		_, err := env.medications.LogDose(ctx, LogDoseInput{
			MedicationID: med.ID, Strength: 200, Units: "mg", Timestamp: ts(i),
		})
		require.NoError(t, err)
	}

	first, err := env.medications.GetLogs(ctx, med.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)

	_, err = env.medications.LogDose(ctx, LogDoseInput{
		MedicationID: med.ID, Strength: 200, Units: "mg", Timestamp: ts(99),
	})
	require.NoError(t, err)

	second, err := env.medications.GetLogs(ctx, med.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)

	// The entry at the tail of the first page reappears in the second.
	assert.Equal(t, first[1].ID, second[0].ID)
}

func TestGetLogsEmptyCases(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	med := env.createIbuprofen(t, nil)

	logs, err := env.medications.GetLogs(ctx, med.ID, 0, 5)
	require.NoError(t, err)
	assert.Empty(t, logs)

	logs, err = env.medications.GetLogs(ctx, "unknown-id", 0, 5)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCreateMedicationPrescriberIntegrity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	missing := "missing-contact"
	_, err := env.medications.CreateMedication(ctx, CreateMedicationInput{
		Name: "Ibuprofen", Strength: 200, Units: "mg", Quantity: 30,
		PrescriberID: &missing,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.New(apperrors.KindIntegrity, "UNKNOWN_PRESCRIBER", ""))

	caregiver, err := env.contacts.CreateContact(ctx, CreateContactInput{
		Name:        "Sibling",
		ContactType: domain.ContactTypeCaregiver,
	})
	require.NoError(t, err)

	_, err = env.medications.CreateMedication(ctx, CreateMedicationInput{
		Name: "Ibuprofen", Strength: 200, Units: "mg", Quantity: 30,
		PrescriberID: &caregiver.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.New(apperrors.KindIntegrity, "PRESCRIBER_NOT_NURSE", ""))

	nurse := env.createNurse(t)
	med, err := env.medications.CreateMedication(ctx, CreateMedicationInput{
		Name: "Ibuprofen", Strength: 200, Units: "mg", Quantity: 30,
		PrescriberID: &nurse.ID,
	})
	require.NoError(t, err)

	got, err := env.medications.GetMedication(ctx, med.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PrescriberID)
	assert.Equal(t, nurse.ID, *got.PrescriberID)
}

func TestCreateMedicationValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	cases := []CreateMedicationInput{
		{Name: "", Strength: 200, Units: "mg", Quantity: 30},
		{Name: "Ibuprofen", Strength: 0, Units: "mg", Quantity: 30},
		{Name: "Ibuprofen", Strength: 200, Units: "", Quantity: 30},
		{Name: "Ibuprofen", Strength: 200, Units: "mg", Quantity: -1},
	}
	for _, input := range cases {
		_, err := env.medications.CreateMedication(ctx, input)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	}
}

func TestUpdateMedication(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	med := env.createIbuprofen(t, nil)

	env.medications.now = func() int64 { return baseTime + 500 }

	name := "Ibuprofen 200"
	updated, err := env.medications.UpdateMedication(ctx, UpdateMedicationInput{
		ID:   med.ID,
		Name: &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ibuprofen 200", updated.Name)
	assert.Equal(t, baseTime, updated.CreatedAt)
	assert.Equal(t, baseTime+500, updated.UpdatedAt)

	// A prescriber change is re-checked against the nurse rule.
	patient, err := env.contacts.CreateContact(ctx, CreateContactInput{
		Name:        "Patient",
		ContactType: domain.ContactTypePatient,
	})
	require.NoError(t, err)

	_, err = env.medications.UpdateMedication(ctx, UpdateMedicationInput{
		ID:           med.ID,
		PrescriberID: &patient.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.New(apperrors.KindIntegrity, "PRESCRIBER_NOT_NURSE", ""))

	_, err = env.medications.UpdateMedication(ctx, UpdateMedicationInput{ID: "missing"})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestDeleteMedicationBlockedThenCascade(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	med := env.createIbuprofen(t, nil)

	_, err := env.medications.LogDose(ctx, LogDoseInput{
		MedicationID: med.ID, Strength: 200, Units: "mg", Timestamp: ts(10),
	})
	require.NoError(t, err)

	err = env.medications.DeleteMedication(ctx, med.ID, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.New(apperrors.KindIntegrity, "MEDICATION_HAS_LOGS", ""))

	// Blocked delete left everything in place.
	_, err = env.medications.GetMedication(ctx, med.ID)
	require.NoError(t, err)

	require.NoError(t, env.medications.DeleteMedication(ctx, med.ID, true))

	_, err = env.medications.GetMedication(ctx, med.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	logs, err := env.medications.GetLogs(ctx, med.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)

	err = env.medications.DeleteMedication(ctx, "missing", false)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
