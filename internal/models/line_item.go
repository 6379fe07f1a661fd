package models

// SplitMode selects how an item's total is divided among its participants.
type SplitMode string

const (
	// SplitEqual divides the item total evenly among the assigned
	// participants. Assignment.Values is ignored in this mode.
	SplitEqual SplitMode = "equal"

	// SplitAmount assigns an explicit currency amount per participant.
	// The amounts must sum to the item total within 0.01.
	SplitAmount SplitMode = "amount"

	// SplitPercent assigns a percentage per participant. The percentages
	// must sum to 100 within 0.1.
	SplitPercent SplitMode = "percent"

	// SplitShares assigns weighted units per participant; each share is
	// total × weight / Σweights.
	SplitShares SplitMode = "shares"
)

// Assignment describes who shares a line item and in which mode.
//
// In SplitEqual mode only Participants is consulted. In the explicit modes
// (amount, percent, shares) Values maps participant IDs to values in the
// active mode's unit and Participants is derived from its keys.
type Assignment struct {
	Mode         SplitMode          `json:"mode"`
	Participants []string           `json:"participants,omitempty"`
	Values       map[string]float64 `json:"values,omitempty"`
}

// ParticipantIDs returns the participants covered by the assignment,
// regardless of mode.
func (a Assignment) ParticipantIDs() []string {
	if a.Mode == SplitEqual || len(a.Values) == 0 {
		return a.Participants
	}
	ids := make([]string, 0, len(a.Values))
	for id := range a.Values {
		ids = append(ids, id)
	}
	return ids
}

// LineItem is a single line on a receipt.
//
// UnitPrice is signed: negative prices represent refunds or returns and
// subtract from the merchandise subtotal. Invariant (enforced by the engine,
// blocked on save by the service layer): in explicit split modes the derived
// shares must sum to Total() within 0.01.
type LineItem struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Quantity   int        `json:"quantity"`
	UnitPrice  float64    `json:"unit_price"`
	CategoryID CategoryID `json:"category_id,omitempty"`
	Assignment Assignment `json:"assignment"`
}

// Total is the full value of the line: quantity × unit price.
func (it LineItem) Total() float64 {
	return float64(it.Quantity) * it.UnitPrice
}
