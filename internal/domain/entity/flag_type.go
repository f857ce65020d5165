package entity

import "fmt"

// Account categories a flag type applies to.
const (
	CategoryDriver   = "driver"
	CategoryCustomer = "customer"
)

// Flag type codes.
const (
	FlagLowContributions          = "LOW_CONTRIBUTIONS"
	FlagInactiveAccount           = "INACTIVE_ACCOUNT"
	FlagHighCancellationRate      = "HIGH_CANCELLATION_RATE"
	FlagContributionIrregularities = "CONTRIBUTION_IRREGULARITIES"
	FlagCustomerComplaints        = "CUSTOMER_COMPLAINTS"
	FlagRFIDIssues                = "RFID_ISSUES"
	FlagNoShow                    = "NO_SHOW"
	FlagNonPayment                = "NON_PAYMENT"
	FlagWrongPin                  = "WRONG_PIN"
	FlagAbusiveBehavior           = "ABUSIVE_BEHAVIOR"
	FlagExcessiveCancellations    = "EXCESSIVE_CANCELLATIONS"
	FlagDiscountAbuse             = "DISCOUNT_ABUSE"
)

// FlagTypeDefinition is a static catalog entry defining a category of issue
// and its default severity, point value and display metadata.
type FlagTypeDefinition struct {
	Code        string
	Category    string
	Severity    string
	Points      int
	DisplayName string
	Icon        string
}

// flagTypes is the single source of truth for flag severity, points,
// category and display metadata. Detectors and views must never hard-code
// these values elsewhere.
var flagTypes = map[string]FlagTypeDefinition{
	FlagLowContributions: {
		Code: FlagLowContributions, Category: CategoryDriver,
		Severity: SeverityHigh, Points: 75,
		DisplayName: "Low Contributions", Icon: "💰",
	},
	FlagInactiveAccount: {
		Code: FlagInactiveAccount, Category: CategoryDriver,
		Severity: SeverityMedium, Points: 50,
		DisplayName: "Inactive Account", Icon: "💤",
	},
	FlagHighCancellationRate: {
		Code: FlagHighCancellationRate, Category: CategoryDriver,
		Severity: SeverityHigh, Points: 75,
		DisplayName: "High Cancellation Rate", Icon: "🚫",
	},
	FlagContributionIrregularities: {
		Code: FlagContributionIrregularities, Category: CategoryDriver,
		Severity: SeverityHigh, Points: 75,
		DisplayName: "Contribution Irregularities", Icon: "📉",
	},
	FlagCustomerComplaints: {
		Code: FlagCustomerComplaints, Category: CategoryDriver,
		Severity: SeverityCritical, Points: 100,
		DisplayName: "Customer Complaints", Icon: "😡",
	},
	FlagRFIDIssues: {
		Code: FlagRFIDIssues, Category: CategoryDriver,
		Severity: SeverityMedium, Points: 50,
		DisplayName: "RFID Issues", Icon: "🏷️",
	},
	FlagNoShow: {
		Code: FlagNoShow, Category: CategoryCustomer,
		Severity: SeverityCritical, Points: 100,
		DisplayName: "No-Show Pattern", Icon: "👻",
	},
	FlagNonPayment: {
		Code: FlagNonPayment, Category: CategoryCustomer,
		Severity: SeverityCritical, Points: 100,
		DisplayName: "Non-Payment", Icon: "💸",
	},
	FlagWrongPin: {
		Code: FlagWrongPin, Category: CategoryCustomer,
		Severity: SeverityMedium, Points: 50,
		DisplayName: "Wrong Location PIN", Icon: "📍",
	},
	FlagAbusiveBehavior: {
		Code: FlagAbusiveBehavior, Category: CategoryCustomer,
		Severity: SeverityCritical, Points: 100,
		DisplayName: "Abusive Behavior", Icon: "🤬",
	},
	FlagExcessiveCancellations: {
		Code: FlagExcessiveCancellations, Category: CategoryCustomer,
		Severity: SeverityHigh, Points: 75,
		DisplayName: "Excessive Cancellations", Icon: "❌",
	},
	FlagDiscountAbuse: {
		Code: FlagDiscountAbuse, Category: CategoryCustomer,
		Severity: SeverityHigh, Points: 75,
		DisplayName: "Discount Abuse", Icon: "🎫",
	},
}

// LookupFlagType returns the catalog definition for a flag type code.
func LookupFlagType(code string) (FlagTypeDefinition, error) {
	def, ok := flagTypes[code]
	if !ok {
		return FlagTypeDefinition{}, fmt.Errorf("unknown flag type: %s", code)
	}
	return def, nil
}

// FlagTypeDisplayName returns the display name for a code, falling back to
// the raw code for unknown types so views never break on stale data.
func FlagTypeDisplayName(code string) string {
	if def, ok := flagTypes[code]; ok {
		return def.DisplayName
	}
	return code
}
