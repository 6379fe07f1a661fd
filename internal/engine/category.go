package engine

import "github.com/tallyup/tallyup/internal/models"

// Strategy is the closed set of allocation strategies for special lines.
// Exactly one strategy applies to every known special category; merchandise
// lines carry StrategyNone and are allocated per their item assignment.
type Strategy int

const (
	// StrategyNone marks a merchandise line (no special handling).
	StrategyNone Strategy = iota

	// StrategyExclude keeps the line out of every participant's cost and
	// the grand total; the amount is accumulated for display only.
	StrategyExclude

	// StrategySplitEqual divides the line evenly across all participants,
	// regardless of item assignment.
	StrategySplitEqual

	// StrategySplitProportional distributes the line in proportion to each
	// participant's merchandise share.
	StrategySplitProportional

	// StrategyTrackSeparate sums the line into an informational net figure
	// (deposits), excluded from cost allocation and the grand total.
	StrategyTrackSeparate

	// StrategyTrackOnly sums the line for display, excluded from split and
	// grand total.
	StrategyTrackOnly
)

// String returns the strategy name used in logs and API responses.
func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyExclude:
		return "exclude"
	case StrategySplitEqual:
		return "split_equal"
	case StrategySplitProportional:
		return "split_proportional"
	case StrategyTrackSeparate:
		return "track_separate"
	case StrategyTrackOnly:
		return "track_only"
	default:
		return "unknown"
	}
}

// Classification is the result of classifying a category id.
type Classification struct {
	// Merchandise reports whether the line is a purchased product.
	Merchandise bool

	// Strategy is the allocation strategy for special lines;
	// StrategyNone when Merchandise is true.
	Strategy Strategy
}

// Classify maps a category id to its classification. The mapping is a fixed
// table: every known special-line id has exactly one strategy, and any
// unrecognized id (including the empty string) defaults to merchandise so new
// upstream categories degrade to assignable lines instead of disappearing.
func Classify(id models.CategoryID) Classification {
	switch id {
	case models.CategoryTax, models.CategoryPayment:
		return Classification{Strategy: StrategyExclude}
	case models.CategoryTip, models.CategoryFee, models.CategoryShipping, models.CategoryRounding:
		return Classification{Strategy: StrategySplitEqual}
	case models.CategoryDiscount:
		return Classification{Strategy: StrategySplitProportional}
	case models.CategoryDeposit, models.CategoryDepositReturn:
		return Classification{Strategy: StrategyTrackSeparate}
	case models.CategoryRefund, models.CategoryCashback, models.CategoryDonation:
		return Classification{Strategy: StrategyTrackOnly}
	default:
		return Classification{Merchandise: true}
	}
}
