package validator

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paydrop/paydrop-backend/internal/domain"
)

// Default recipient limits per variant. The single-asset and combined limits
// deliberately differ; both are configurable on the disbursement service.
const (
	DefaultSingleAssetRecipientLimit = 100
	DefaultCombinedRecipientLimit    = 255
)

// ValidateBatch checks the structural well-formedness of a single-asset batch
// before any funds move. It reports the first violated rule only, in this
// fixed order:
//  1. Empty recipients -> ErrNoRecipients
//  2. Empty amounts -> ErrNoAmounts
//  3. Length mismatch -> ErrLengthMismatch
//  4. Recipient count above limit -> ErrTooManyRecipients
func ValidateBatch(recipients []uuid.UUID, amounts []decimal.Decimal, limit int) error {
	if len(recipients) == 0 {
		return domain.ErrNoRecipients
	}

	if len(amounts) == 0 {
		return domain.ErrNoAmounts
	}

	if len(recipients) != len(amounts) {
		return domain.ErrLengthMismatch
	}

	if len(recipients) > limit {
		return domain.ErrTooManyRecipients
	}

	return nil
}

// ValidateCombinedBatch checks a combined (token + native) batch, where each
// recipient receives a token amount and a native amount. Rule order:
//  1. Empty recipients -> ErrNoRecipients
//  2. Empty token amounts -> ErrNoAmounts
//  3. Empty native amounts -> ErrNoAmounts
//  4. Recipients/token amounts length mismatch -> ErrLengthMismatch
//  5. Recipients/native amounts length mismatch -> ErrLengthMismatch
//  6. Recipient count above limit -> ErrTooManyRecipients
func ValidateCombinedBatch(recipients []uuid.UUID, tokenAmounts, nativeAmounts []decimal.Decimal, limit int) error {
	if len(recipients) == 0 {
		return domain.ErrNoRecipients
	}

	if len(tokenAmounts) == 0 {
		return domain.ErrNoAmounts
	}

	if len(nativeAmounts) == 0 {
		return domain.ErrNoAmounts
	}

	if len(recipients) != len(tokenAmounts) {
		return domain.ErrLengthMismatch
	}

	if len(recipients) != len(nativeAmounts) {
		return domain.ErrLengthMismatch
	}

	if len(recipients) > limit {
		return domain.ErrTooManyRecipients
	}

	return nil
}
