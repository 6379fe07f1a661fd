package models

// Receipt groups line items bought together, with receipt-level modifiers.
//
// TaxAmount and TipAmount are conveniences for receipts where tax and tip are
// not itemized: the engine treats TaxAmount like an excluded tax line and
// TipAmount like an equal-split tip line.
//
// ScannedTotal is the total read off the physical receipt by an external
// import step. It is used for verification display only — settlement always
// uses the calculated totals — except that a payer's amount paid prefers the
// scanned figure, since that is what was actually charged.
type Receipt struct {
	ID           string     `json:"id"`
	GroupID      string     `json:"group_id,omitempty"`
	Title        string     `json:"title"`
	Items        []LineItem `json:"items"`
	TaxAmount    float64    `json:"tax_amount"`
	TipAmount    float64    `json:"tip_amount"`
	PayerID      string     `json:"payer_id,omitempty"`
	ScannedTotal float64    `json:"scanned_total,omitempty"`
	CreatedAt    int64      `json:"created_at"`
}

// ChargedTotal is the amount the payer was actually charged for this receipt:
// every line except tender lines, plus receipt-level tax and tip. When a
// scanned total is present it wins, since it reflects the real charge.
func (r Receipt) ChargedTotal() float64 {
	if r.ScannedTotal != 0 {
		return r.ScannedTotal
	}
	total := r.TaxAmount + r.TipAmount
	for _, it := range r.Items {
		if it.CategoryID == CategoryPayment {
			continue
		}
		total += it.Total()
	}
	return total
}
