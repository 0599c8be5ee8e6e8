package saga

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinicbook/booking-saga/pkg/catalog"
	"github.com/clinicbook/booking-saga/pkg/models"
)

// Validator checks structural validity of the user input and resolves the
// requested service ids against the catalog. A validation failure is fatal
// but needs no compensation: nothing has been committed yet.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Name() string { return "validate" }

func (v *Validator) Execute(ctx context.Context, tx models.Transaction) StepResult {
	if len(strings.TrimSpace(tx.User.Name)) < 2 {
		return v.fail("name must be at least 2 characters long")
	}
	if len(tx.ServiceIDs) == 0 {
		return v.fail("at least one service must be selected")
	}

	services, err := catalog.ByIDs(tx.User.Gender, tx.ServiceIDs)
	if err != nil {
		return v.fail(err.Error())
	}

	return StepResult{
		Event:   models.EventValidationCompleted,
		Message: fmt.Sprintf("Validation successful. %d services selected.", len(services)),
		Details: map[string]any{"service_count": len(services)},
		Apply: func(tx *models.Transaction) {
			tx.Services = services
			tx.StepsCompleted = append(tx.StepsCompleted, "validate")
		},
	}
}

func (v *Validator) fail(reason string) StepResult {
	return StepResult{
		Event:   models.EventValidationFailed,
		Message: fmt.Sprintf("Validation failed: %s", reason),
		Details: map[string]any{"error": reason},
		Apply: func(tx *models.Transaction) {
			tx.FailureReason = reason
		},
	}
}
