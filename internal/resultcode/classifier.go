// Package resultcode maps HyperPay result codes to outcome categories,
// descriptions, retry eligibility and operator guidance.
//
// All functions are pure: the taxonomy lives in package level tables and
// nothing is cached per code.
package resultcode

// Category is the semantic grouping of a result code.
type Category string

const (
	CategorySuccessful               Category = "successful"
	CategorySuccessfulReviewRequired Category = "successful_review_required"
	CategoryPending                  Category = "pending"
	CategoryBankDeclined             Category = "bank_declined"
	Category3DSecureIssue            Category = "3d_secure_issue"
	CategoryBlacklisted              Category = "blacklisted"
	CategoryValidationError          Category = "validation_error"
	CategoryConfigurationError       Category = "configuration_error"
	CategoryRiskManagementIssue      Category = "risk_management_issue"
	CategoryCommunicationError       Category = "communication_error"
	CategorySystemError              Category = "system_error"
	CategoryChargeback               Category = "chargeback"
	CategorySoftDecline              Category = "soft_decline"
	CategoryUnknown                  Category = "unknown"
)

// Categories returns every category in precedence order, ending with unknown.
func Categories() []Category {
	out := make([]Category, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, CategoryUnknown)
}

func (c Category) String() string {
	return string(c)
}

// IsSuccessful reports whether the code is a fully successful transaction.
func IsSuccessful(code string) bool {
	return ruleFor(CategorySuccessful).match(code)
}

// IsSuccessfulButNeedsReview reports whether the transaction succeeded but
// should be reviewed manually.
func IsSuccessfulButNeedsReview(code string) bool {
	return ruleFor(CategorySuccessfulReviewRequired).match(code)
}

// IsPending covers both the synchronous and the async workflow pending groups.
func IsPending(code string) bool {
	return ruleFor(CategoryPending).match(code)
}

// IsRejected is the residual outcome: any code that is not successful, not
// successful pending review and not pending is rejected. Codes HyperPay may
// introduce later therefore never count as success.
func IsRejected(code string) bool {
	return !IsSuccessful(code) && !IsSuccessfulButNeedsReview(code) && !IsPending(code)
}

func IsBankDeclined(code string) bool { return ruleFor(CategoryBankDeclined).match(code) }

func Is3DSecureIssue(code string) bool { return ruleFor(Category3DSecureIssue).match(code) }

func IsBlacklisted(code string) bool { return ruleFor(CategoryBlacklisted).match(code) }

func IsValidationError(code string) bool { return ruleFor(CategoryValidationError).match(code) }

func IsConfigurationError(code string) bool { return ruleFor(CategoryConfigurationError).match(code) }

func IsRiskManagementIssue(code string) bool { return ruleFor(CategoryRiskManagementIssue).match(code) }

func IsCommunicationError(code string) bool { return ruleFor(CategoryCommunicationError).match(code) }

func IsSystemError(code string) bool { return ruleFor(CategorySystemError).match(code) }

func IsChargeback(code string) bool { return ruleFor(CategoryChargeback).match(code) }

func IsSoftDecline(code string) bool { return ruleFor(CategorySoftDecline).match(code) }

// CategoryOf returns exactly one category for the code. When several finer
// groups match, the earliest rule wins.
func CategoryOf(code string) Category {
	for _, r := range rules {
		if r.match(code) {
			return r.category
		}
	}
	return CategoryUnknown
}

// Description looks the code up by exact match and returns
// UnknownDescription when it is not listed.
func Description(code string) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return UnknownDescription
}

var retryableCategories = map[Category]bool{
	CategoryCommunicationError: true,
	CategorySystemError:        true,
	CategorySoftDecline:        true,
}

// retryableCodes are transient even when their category is not.
var retryableCodes = map[string]bool{
	"800.100.176": true, // account temporarily not available
	"900.100.500": true, // acquirer timeout, try later
	"900.100.600": true, // acquirer down
	"800.800.400": true, // acquirer maintenance
	"800.800.800": true, // payment system unavailable
	"800.800.801": true, // payment system maintenance
}

// CanRetry reports whether a transaction with this code may be resubmitted.
func CanRetry(code string) bool {
	if retryableCodes[code] {
		return true
	}
	return retryableCategories[CategoryOf(code)]
}

var suggestedActions = map[Category]string{
	CategorySuccessful:               "Transaction completed successfully. Process the order.",
	CategorySuccessfulReviewRequired: "Transaction successful but requires manual review due to risk factors.",
	CategoryPending:                  "Transaction is pending. Wait for status update or check transaction status later.",
	CategoryBankDeclined:             "Transaction declined by bank. Customer should contact their bank or try a different payment method.",
	Category3DSecureIssue:            "3D Secure authentication issue. Customer may need to retry with proper authentication.",
	CategoryBlacklisted:              "Account, card, or customer is blacklisted. Transaction cannot be processed.",
	CategoryValidationError:          "Invalid input data. Check and correct the payment information.",
	CategoryConfigurationError:       "System configuration issue. Contact technical support.",
	CategoryRiskManagementIssue:      "Transaction flagged by risk management. Review transaction or contact customer.",
	CategoryCommunicationError:       "Communication error with payment processor. Retry the transaction.",
	CategorySystemError:              "System error occurred. Retry later or contact support if issue persists.",
	CategorySoftDecline:              "Additional customer authentication required. Implement Strong Customer Authentication (SCA).",
	CategoryChargeback:               "Chargeback initiated. Review chargeback details and respond appropriately.",
	CategoryUnknown:                  "Unknown error. Contact technical support for assistance.",
}

// SuggestedAction returns operator guidance for a category. Unrecognized
// categories get the unknown guidance.
func SuggestedAction(c Category) string {
	if a, ok := suggestedActions[c]; ok {
		return a
	}
	return suggestedActions[CategoryUnknown]
}

// SuggestedActionFor is SuggestedAction(CategoryOf(code)).
func SuggestedActionFor(code string) string {
	return SuggestedAction(CategoryOf(code))
}

// MatchedGroups lists the names of every published pattern group the code
// matches, in table order. Used by operator tooling.
func MatchedGroups(code string) []string {
	var out []string
	for _, g := range groups {
		if g.pattern.MatchString(code) {
			out = append(out, g.name)
		}
	}
	return out
}
