// Package commands exposes the store's named command surface. The command
// names are the wire contract with the interface layer and must not be
// renamed.
package commands

import (
	"context"
	"encoding/json"

	apperrors "github.com/ojosproject/iris-store/internal/errors"
	"github.com/ojosproject/iris-store/internal/logger"
	"github.com/ojosproject/iris-store/internal/services"
)

// HandlerFunc executes one named command against the store. The payload is
// the raw input bundle supplied by the caller; the result is the created
// or queried entity (or sequence of entities).
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Dispatcher routes command names to their handlers. Each invocation is
// independent: the dispatcher holds no per-client session state.
type Dispatcher struct {
	handlers map[string]HandlerFunc
}

func NewDispatcher(
	contacts *services.ContactService,
	medications *services.MedicationService,
	care *services.CareInstructionService,
) *Dispatcher {
	d := &Dispatcher{handlers: map[string]HandlerFunc{}}

	d.register("get_all_care_instructions", func(ctx context.Context, _ json.RawMessage) (any, error) {
		return care.ListCareInstructions(ctx)
	})

	d.register("get_care_instruction", func(ctx context.Context, payload json.RawMessage) (any, error) {
		in, err := decode[idQuery](payload)
		if err != nil {
			return nil, err
		}
		instruction, err := care.GetCareInstruction(ctx, in.ID)
		return asSequence(instruction, err)
	})

	d.register("get_medications", func(ctx context.Context, payload json.RawMessage) (any, error) {
		in, err := decode[optionalIDQuery](payload)
		if err != nil {
			return nil, err
		}
		if in.ID == nil || *in.ID == "" {
			return medications.ListMedications(ctx)
		}
		med, err := medications.GetMedication(ctx, *in.ID)
		return asSequence(med, err)
	})

	d.register("get_medication_logs", func(ctx context.Context, payload json.RawMessage) (any, error) {
		in, err := decode[logsQuery](payload)
		if err != nil {
			return nil, err
		}
		if in.MedicationID == "" {
			return nil, apperrors.NewValidationError("MISSING_MEDICATION_ID", "medication_id is required")
		}
		return medications.GetLogs(ctx, in.MedicationID, in.Offset, in.Limit)
	})

	d.register("get_contacts", func(ctx context.Context, payload json.RawMessage) (any, error) {
		in, err := decode[optionalIDQuery](payload)
		if err != nil {
			return nil, err
		}
		if in.ID == nil || *in.ID == "" {
			return contacts.ListContacts(ctx)
		}
		contact, err := contacts.GetContact(ctx, *in.ID)
		return asSequence(contact, err)
	})

	d.register("create_contact", func(ctx context.Context, payload json.RawMessage) (any, error) {
		in, err := decode[services.CreateContactInput](payload)
		if err != nil {
			return nil, err
		}
		return contacts.CreateContact(ctx, in)
	})

	d.register("create_medication", func(ctx context.Context, payload json.RawMessage) (any, error) {
		in, err := decode[services.CreateMedicationInput](payload)
		if err != nil {
			return nil, err
		}
		return medications.CreateMedication(ctx, in)
	})

	d.register("update_medication", func(ctx context.Context, payload json.RawMessage) (any, error) {
		in, err := decode[services.UpdateMedicationInput](payload)
		if err != nil {
			return nil, err
		}
		return medications.UpdateMedication(ctx, in)
	})

	d.register("log_dose", func(ctx context.Context, payload json.RawMessage) (any, error) {
		in, err := decode[services.LogDoseInput](payload)
		if err != nil {
			return nil, err
		}
		return medications.LogDose(ctx, in)
	})

	d.register("delete_medication", func(ctx context.Context, payload json.RawMessage) (any, error) {
		in, err := decode[deleteMedicationInput](payload)
		if err != nil {
			return nil, err
		}
		if in.ID == "" {
			return nil, apperrors.NewValidationError("MISSING_ID", "id is required")
		}
		return nil, medications.DeleteMedication(ctx, in.ID, in.Cascade)
	})

	d.register("create_care_instruction", func(ctx context.Context, payload json.RawMessage) (any, error) {
		in, err := decode[services.CreateCareInstructionInput](payload)
		if err != nil {
			return nil, err
		}
		return care.CreateCareInstruction(ctx, in)
	})

	d.register("update_care_instruction", func(ctx context.Context, payload json.RawMessage) (any, error) {
		in, err := decode[services.UpdateCareInstructionInput](payload)
		if err != nil {
			return nil, err
		}
		return care.UpdateCareInstruction(ctx, in)
	})

	return d
}

func (d *Dispatcher) register(name string, handler HandlerFunc) {
	d.handlers[name] = handler
}

// Commands lists the registered command names.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	return names
}

// Invoke runs the named command. Unknown names surface as not-found
// errors, never as a panic or a bare string.
func (d *Dispatcher) Invoke(ctx context.Context, name string, payload json.RawMessage) (any, error) {
	handler, ok := d.handlers[name]
	if !ok {
		return nil, apperrors.NewNotFoundError("UNKNOWN_COMMAND", "unknown command: "+name)
	}
	result, err := handler(ctx, payload)
	if err != nil {
		logger.Warn("command failed", "command", name, "error", err.Error())
		return nil, err
	}
	return result, nil
}

type idQuery struct {
	ID string `json:"id"`
}

type optionalIDQuery struct {
	ID *string `json:"id,omitempty"`
}

type logsQuery struct {
	MedicationID string `json:"medication_id"`
	Offset       int    `json:"offset"`
	Limit        int    `json:"limit"`
}

type deleteMedicationInput struct {
	ID      string `json:"id"`
	Cascade bool   `json:"cascade"`
}

// decode parses a command payload. An empty payload decodes to the zero
// input, which suits the argument-less queries.
func decode[T any](payload json.RawMessage) (T, error) {
	var v T
	if len(payload) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, apperrors.NewValidationError("BAD_PAYLOAD", "malformed command payload: "+err.Error())
	}
	return v, nil
}

// asSequence adapts a single-entity lookup to the historical "always a
// sequence" shape: a missing record becomes an empty sequence, not an
// error.
func asSequence[T any](record *T, err error) (any, error) {
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return []T{}, nil
		}
		return nil, err
	}
	return []T{*record}, nil
}
