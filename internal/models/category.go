package models

// CategoryID identifies what kind of receipt line an item is.
//
// The known special-line ids below are handled by a fixed allocation strategy
// in the engine; any other id (including the empty string) is treated as a
// merchandise line eligible for per-item assignment.
type CategoryID string

const (
	// CategoryTax is sales tax, already included in item prices in most
	// receipts; shown for verification, never allocated.
	CategoryTax CategoryID = "tax"

	// CategoryDeposit is a container deposit (e.g. bottle deposit).
	CategoryDeposit CategoryID = "deposit"

	// CategoryDepositReturn is a refunded container deposit (negative).
	CategoryDepositReturn CategoryID = "deposit_return"

	// CategoryDiscount is a receipt-wide discount or coupon, normally
	// negative, distributed proportionally to merchandise shares.
	CategoryDiscount CategoryID = "discount"

	// CategoryFee is a service or booking fee split equally.
	CategoryFee CategoryID = "fee"

	// CategoryShipping is a delivery charge split equally.
	CategoryShipping CategoryID = "shipping"

	// CategoryTip is a gratuity split equally.
	CategoryTip CategoryID = "tip"

	// CategoryRounding is a cash-rounding adjustment split equally.
	CategoryRounding CategoryID = "rounding"

	// CategoryRefund is a refunded purchase tracked for display only.
	CategoryRefund CategoryID = "refund"

	// CategoryCashback is cash withdrawn with the purchase, tracked only.
	CategoryCashback CategoryID = "cashback"

	// CategoryDonation is a checkout donation, tracked only.
	CategoryDonation CategoryID = "donation"

	// CategoryPayment is a tender line (card, cash given); never a cost.
	CategoryPayment CategoryID = "payment"
)
