package resultcode

import "regexp"

// Pattern groups published by HyperPay for result code classification.
// Codes are matched by prefix against the dotted string.
var (
	successfulPattern       = regexp.MustCompile(`^(000\.000\.|000\.100\.1|000\.[36]|000\.400\.[1][12]0)`)
	successfulReviewPattern = regexp.MustCompile(`^(000\.400\.0[^3]|000\.400\.100)`)
	pendingPattern          = regexp.MustCompile(`^(000\.200)`)
	pendingAsyncPattern     = regexp.MustCompile(`^(800\.400\.5|100\.400\.500)`)
	threeDSIntercardPattern = regexp.MustCompile(`^(000\.400\.[1][0-9][1-9]|000\.400\.2)`)
	bankDeclinedPattern     = regexp.MustCompile(`^(800\.[17]00|800\.800\.[123])`)
	communicationPattern    = regexp.MustCompile(`^(900\.[1234]00|000\.400\.030)`)
	systemPattern           = regexp.MustCompile(`^(800\.[56]|999\.|600\.1|800\.800\.[84])`)
	asyncWorkflowPattern    = regexp.MustCompile(`^(100\.39[765])`)
	softDeclinePattern      = regexp.MustCompile(`^(300\.100\.100)`)
	externalRiskPattern     = regexp.MustCompile(`^(100\.400\.[0-3]|100\.380\.100|100\.380\.11|100\.380\.4|100\.380\.5)`)
	addressPattern          = regexp.MustCompile(`^(800\.400\.1)`)
	threeDSRejectionPattern = regexp.MustCompile(`^(800\.400\.2|100\.390)`)
	blacklistPattern        = regexp.MustCompile(`^(800\.[32])`)
	riskValidationPattern   = regexp.MustCompile(`^(800\.1[123456]0)`)
	configurationPattern    = regexp.MustCompile(`^(600\.[23]|500\.[12]|800\.121)`)
	registrationPattern     = regexp.MustCompile(`^(100\.[13]50)`)
	jobValidationPattern    = regexp.MustCompile(`^(100\.250|100\.360)`)
	referencePattern        = regexp.MustCompile(`^(700\.[1345][05]0)`)
	formatPattern           = regexp.MustCompile(`^(200\.[123]|100\.[53][07]|800\.900|100\.[69]00\.500)`)
	addressDetailedPattern  = regexp.MustCompile(`^(100\.800)`)
	contactPattern          = regexp.MustCompile(`^(100\.700|100\.900\.[123467890][00-99])`)
	// The unescaped dot after 100 is kept as published.
	accountPattern        = regexp.MustCompile(`^(100\.100|100.2[01])`)
	amountPattern         = regexp.MustCompile(`^(100\.55)`)
	riskManagementPattern = regexp.MustCompile(`^(100\.380\.[23]|100\.380\.101)`)
	chargebackPattern     = regexp.MustCompile(`^(000\.100\.2)`)
)

// rule binds a category to the pattern groups that select it.
type rule struct {
	category Category
	patterns []*regexp.Regexp
}

func (r rule) match(code string) bool {
	for _, p := range r.patterns {
		if p.MatchString(code) {
			return true
		}
	}
	return false
}

// rules is evaluated top to bottom; the first match decides the category.
var rules = []rule{
	{CategorySuccessful, []*regexp.Regexp{successfulPattern}},
	{CategorySuccessfulReviewRequired, []*regexp.Regexp{successfulReviewPattern}},
	{CategoryPending, []*regexp.Regexp{pendingPattern, pendingAsyncPattern}},
	{CategoryBankDeclined, []*regexp.Regexp{bankDeclinedPattern}},
	{Category3DSecureIssue, []*regexp.Regexp{threeDSIntercardPattern, threeDSRejectionPattern}},
	{CategoryBlacklisted, []*regexp.Regexp{blacklistPattern}},
	{CategoryValidationError, []*regexp.Regexp{formatPattern, addressPattern, contactPattern, accountPattern, amountPattern}},
	{CategoryConfigurationError, []*regexp.Regexp{configurationPattern}},
	{CategoryRiskManagementIssue, []*regexp.Regexp{externalRiskPattern, riskValidationPattern, riskManagementPattern}},
	{CategoryCommunicationError, []*regexp.Regexp{communicationPattern}},
	{CategorySystemError, []*regexp.Regexp{systemPattern}},
	{CategoryChargeback, []*regexp.Regexp{chargebackPattern}},
	{CategorySoftDecline, []*regexp.Regexp{softDeclinePattern}},
}

// ruleFor returns the rule registered for a category.
func ruleFor(c Category) rule {
	for _, r := range rules {
		if r.category == c {
			return r
		}
	}
	return rule{category: c}
}

type namedGroup struct {
	name    string
	pattern *regexp.Regexp
}

// groups lists every published pattern group by its HyperPay name. Several
// of them (async workflow, registration, job and reference validation) do
// not select a category and are only reported by MatchedGroups.
var groups = []namedGroup{
	{"successful", successfulPattern},
	{"successful_review", successfulReviewPattern},
	{"pending", pendingPattern},
	{"pending_async", pendingAsyncPattern},
	{"threeds_intercard", threeDSIntercardPattern},
	{"bank_declined", bankDeclinedPattern},
	{"communication_error", communicationPattern},
	{"system_error", systemPattern},
	{"async_workflow_error", asyncWorkflowPattern},
	{"soft_decline", softDeclinePattern},
	{"external_risk", externalRiskPattern},
	{"address_validation", addressPattern},
	{"threeds_rejection", threeDSRejectionPattern},
	{"blacklist", blacklistPattern},
	{"risk_validation", riskValidationPattern},
	{"configuration", configurationPattern},
	{"registration", registrationPattern},
	{"job_validation", jobValidationPattern},
	{"reference_validation", referencePattern},
	{"format_validation", formatPattern},
	{"address_validation_detailed", addressDetailedPattern},
	{"contact_validation", contactPattern},
	{"account_validation", accountPattern},
	{"amount_validation", amountPattern},
	{"risk_management", riskManagementPattern},
	{"chargeback", chargebackPattern},
}
