package entity

// AccountValidationStatus is the verdict for one ledger entry's account code.
type AccountValidationStatus string

const (
	// AccountStatusOK means the code exists in the chart and no keyword rule
	// contradicts it.
	AccountStatusOK AccountValidationStatus = "ok"

	// AccountStatusInvalid means a chart was supplied and the code is not in it.
	AccountStatusInvalid AccountValidationStatus = "invalid"

	// AccountStatusUnknown means the validator cannot decide: no chart, no
	// code on the entry, or no rule covering its description.
	AccountStatusUnknown AccountValidationStatus = "unknown"
)

// AccountValidationResult is the verdict for one ledger entry.
type AccountValidationResult struct {
	Entry  *LedgerEntry
	Status AccountValidationStatus
	Reason string
	Rule   *KeywordRule // the rule that decided the verdict, when one matched
}
