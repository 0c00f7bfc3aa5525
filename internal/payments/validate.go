package payments

import (
	"errors"
	"fmt"
	"strings"

	"github.com/partnerpay/partnerpay/internal/model"
)

// ErrInvalid wraps the validation failures of a payment batch.
var ErrInvalid = errors.New("invalid payments")

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule        int
	Index       int // 1-based position in the batch
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("rule %d [payment %d]: %s", e.Rule, e.Index, e.Description)
}

// PartnerChecker tests whether a partner ID exists in the registry.
type PartnerChecker interface {
	Exists(id string) bool
}

// ValidatePayments enforces the write-time rules on a batch of payments.
func ValidatePayments(ps []model.Payment, partners PartnerChecker) []ValidationError {
	var errs []ValidationError
	for i, p := range ps {
		// Rule 1: strictly positive amount.
		if !p.Amount.IsPositive() {
			errs = append(errs, ValidationError{
				Rule:        1,
				Index:       i + 1,
				Description: fmt.Sprintf("amount %s must be greater than zero", p.Amount),
			})
		}

		// Rule 2: partner reference resolves.
		if !partners.Exists(p.PartnerID) {
			errs = append(errs, ValidationError{
				Rule:        2,
				Index:       i + 1,
				Description: fmt.Sprintf("unknown partner %q", p.PartnerID),
			})
		}

		// Rule 3: player present.
		if strings.TrimSpace(p.PlayerName) == "" {
			errs = append(errs, ValidationError{
				Rule:        3,
				Index:       i + 1,
				Description: "player name is empty",
			})
		}
	}
	return errs
}

// Check validates ps and folds any violations into one error wrapping ErrInvalid.
func Check(ps []model.Payment, partners PartnerChecker) error {
	errs := ValidatePayments(ps, partners)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
