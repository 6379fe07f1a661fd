package models

// ParticipantBalance is one participant's derived financial position.
type ParticipantBalance struct {
	// ParticipantID identifies the participant.
	ParticipantID string `json:"participant_id"`

	// TotalCost is the sum of all shares allocated to this participant:
	// merchandise shares plus proportional and equal-split modifiers.
	TotalCost float64 `json:"total_cost"`

	// AmountPaid is what this participant actually paid: charged totals of
	// receipts where they are the payer, adjusted by recorded settlements.
	AmountPaid float64 `json:"amount_paid"`

	// Balance is AmountPaid − TotalCost. Positive means the participant is
	// owed money, negative means they owe money.
	Balance float64 `json:"balance"`
}

// Transaction is one directed settling payment. Amount is always positive.
type Transaction struct {
	FromParticipantID string  `json:"from_participant_id"`
	ToParticipantID   string  `json:"to_participant_id"`
	Amount            float64 `json:"amount"`
}

// Breakdown is the aggregate view of a calculation pass, used by
// verification displays. Only merchandise, the applied discount and the
// equal-split pool contribute to GrandTotal; everything else is
// informational.
type Breakdown struct {
	// MerchandiseSubtotal is the signed sum of all merchandise lines.
	MerchandiseSubtotal float64 `json:"merchandise_subtotal"`

	// ExcludedTotal sums tax and tender lines plus receipt-level tax.
	ExcludedTotal float64 `json:"excluded_total"`

	// DiscountTotal is the sum of proportional discount lines that were
	// actually distributed (normally negative).
	DiscountTotal float64 `json:"discount_total"`

	// UnallocatedDiscount holds discount amounts that could not be
	// distributed because the merchandise subtotal was zero. Surfaced so the
	// caller can warn instead of the amount vanishing silently.
	UnallocatedDiscount float64 `json:"unallocated_discount,omitempty"`

	// TipTotal sums tip lines and receipt-level tips (split equally).
	TipTotal float64 `json:"tip_total"`

	// FeeTotal sums fee, shipping and rounding lines (split equally).
	FeeTotal float64 `json:"fee_total"`

	// UnallocatedEqualSplit holds tip and fee amounts that could not be
	// split because the snapshot has no participants. Surfaced so the
	// caller can warn instead of the amount vanishing silently.
	UnallocatedEqualSplit float64 `json:"unallocated_equal_split,omitempty"`

	// NetDeposits is deposits minus deposit returns, tracked separately.
	NetDeposits float64 `json:"net_deposits"`

	// TrackOnlyTotal sums refund, cashback and donation lines.
	TrackOnlyTotal float64 `json:"track_only_total"`

	// GrandTotal is what the participants collectively owe.
	GrandTotal float64 `json:"grand_total"`
}

// ReceiptCheck compares a receipt's calculated total against its externally
// scanned total. A mismatch is surfaced for user verification but never
// blocks settlement.
type ReceiptCheck struct {
	ReceiptID     string  `json:"receipt_id"`
	ComputedTotal float64 `json:"computed_total"`
	ScannedTotal  float64 `json:"scanned_total"`
	Delta         float64 `json:"delta"`
	Matches       bool    `json:"matches"`
}

// Summary is the full output of one calculation pass. Recomputed from
// scratch on every input change; identical inputs produce identical output.
type Summary struct {
	Balances  []ParticipantBalance `json:"balances"`
	Breakdown Breakdown            `json:"breakdown"`
	Receipts  []ReceiptCheck       `json:"receipts,omitempty"`
}
