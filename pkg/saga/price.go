package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicbook/booking-saga/pkg/catalog"
	"github.com/clinicbook/booking-saga/pkg/clock"
	"github.com/clinicbook/booking-saga/pkg/config"
	"github.com/clinicbook/booking-saga/pkg/models"
)

// Pricer sums catalog prices and determines discount eligibility. The final
// price of an eligible transaction stays tentative until a quota slot is held.
type Pricer struct {
	cfg   *config.Settings
	clock clock.Clock
}

// NewPricer creates a new Pricer.
func NewPricer(cfg *config.Settings, clk clock.Clock) *Pricer {
	return &Pricer{cfg: cfg, clock: clk}
}

func (p *Pricer) Name() string { return "price" }

func (p *Pricer) Execute(ctx context.Context, tx models.Transaction) StepResult {
	basePrice := catalog.BasePrice(tx.Services)
	eligible, reason := Eligible(tx.User.Gender, tx.User.DateOfBirth, p.clock.Now().In(p.cfg.Location()), basePrice, p.cfg.HighValueThreshold)

	return StepResult{
		Event:   models.EventPricingCompleted,
		Message: fmt.Sprintf("Base price: %.2f. Discount eligible: %t", basePrice, eligible),
		Details: map[string]any{
			"base_price":        basePrice,
			"discount_eligible": eligible,
			"discount_reason":   string(reason),
		},
		Apply: func(tx *models.Transaction) {
			tx.BasePrice = basePrice
			tx.DiscountEligible = eligible
			tx.DiscountReason = reason
			// Tentative until a quota slot is reserved.
			tx.FinalPrice = basePrice
			if eligible {
				tx.DiscountPercentage = p.cfg.DiscountPercentage
			}
			tx.StepsCompleted = append(tx.StepsCompleted, "price")
		},
	}
}

// Eligible is the discount rule: a pure function of the inputs, with no
// hidden state. A transaction qualifies when the user is female and today
// (in the reference timezone) matches the date of birth's month and day, or
// when the base price exceeds the high-value threshold. At most one discount
// applies; birthday wins when both hold.
func Eligible(gender models.Gender, dateOfBirth, today time.Time, basePrice, threshold float64) (bool, models.DiscountReason) {
	if gender == models.Female &&
		dateOfBirth.Month() == today.Month() && dateOfBirth.Day() == today.Day() {
		return true, models.DiscountBirthday
	}
	if basePrice > threshold {
		return true, models.DiscountHighValue
	}
	return false, models.DiscountNone
}
