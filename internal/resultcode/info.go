package resultcode

import "strings"

// Info is the full classification of a single code.
type Info struct {
	Code            string   `json:"code"`
	Description     string   `json:"description"`
	Category        Category `json:"category"`
	Successful      bool     `json:"is_successful"`
	NeedsReview     bool     `json:"needs_review"`
	Pending         bool     `json:"is_pending"`
	Rejected        bool     `json:"is_rejected"`
	BankDeclined    bool     `json:"is_bank_declined"`
	ThreeDSecure    bool     `json:"is_3d_secure_issue"`
	Blacklisted     bool     `json:"is_blacklisted"`
	Validation      bool     `json:"is_validation_error"`
	Configuration   bool     `json:"is_configuration_error"`
	RiskManagement  bool     `json:"is_risk_management_issue"`
	Communication   bool     `json:"is_communication_error"`
	System          bool     `json:"is_system_error"`
	Chargeback      bool     `json:"is_chargeback"`
	SoftDecline     bool     `json:"is_soft_decline"`
	Retryable       bool     `json:"can_retry"`
	SuggestedAction string   `json:"suggested_action"`
}

// Lookup classifies code against every table.
func Lookup(code string) Info {
	category := CategoryOf(code)
	return Info{
		Code:            code,
		Description:     Description(code),
		Category:        category,
		Successful:      IsSuccessful(code),
		NeedsReview:     IsSuccessfulButNeedsReview(code),
		Pending:         IsPending(code),
		Rejected:        IsRejected(code),
		BankDeclined:    IsBankDeclined(code),
		ThreeDSecure:    Is3DSecureIssue(code),
		Blacklisted:     IsBlacklisted(code),
		Validation:      IsValidationError(code),
		Configuration:   IsConfigurationError(code),
		RiskManagement:  IsRiskManagementIssue(code),
		Communication:   IsCommunicationError(code),
		System:          IsSystemError(code),
		Chargeback:      IsChargeback(code),
		SoftDecline:     IsSoftDecline(code),
		Retryable:       CanRetry(code),
		SuggestedAction: SuggestedAction(category),
	}
}

// Parsed is the structural breakdown of a dotted code.
type Parsed struct {
	Valid        bool
	MainGroup    string
	SubGroup     string
	SpecificCode string
	Full         string
	Error        string
}

// ErrInvalidFormat is the Parsed.Error text for malformed codes.
const ErrInvalidFormat = "Invalid result code format"

// Parse splits a code into its three numeric groups. Malformed input yields
// Valid=false rather than an error so callers can keep classifying.
func Parse(code string) Parsed {
	parts := strings.Split(code, ".")
	if len(parts) != 3 {
		return Parsed{Full: code, Error: ErrInvalidFormat}
	}
	for _, p := range parts {
		if p == "" || strings.Trim(p, "0123456789") != "" {
			return Parsed{Full: code, Error: ErrInvalidFormat}
		}
	}
	return Parsed{
		Valid:        true,
		MainGroup:    parts[0],
		SubGroup:     parts[1],
		SpecificCode: parts[2],
		Full:         code,
	}
}

// Outcome is the coarse transaction state derived from a code.
type Outcome string

const (
	OutcomeSuccessful               Outcome = "successful"
	OutcomeSuccessfulReviewRequired Outcome = "successful_review_required"
	OutcomePending                  Outcome = "pending"
	OutcomeRejected                 Outcome = "rejected"
)

// OutcomeOf collapses the code into one of the four transaction states.
func OutcomeOf(code string) Outcome {
	switch {
	case IsSuccessful(code):
		return OutcomeSuccessful
	case IsSuccessfulButNeedsReview(code):
		return OutcomeSuccessfulReviewRequired
	case IsPending(code):
		return OutcomePending
	default:
		return OutcomeRejected
	}
}

// Terminal reports whether no further status change is expected. Only
// pending transactions move on.
func (o Outcome) Terminal() bool {
	return o != OutcomePending
}
