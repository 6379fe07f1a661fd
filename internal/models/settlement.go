package models

// Settlement represents a recorded payment between two participants to clear
// debts. Recorded settlements feed back into balance calculation: the payer's
// amount paid increases and the receiver's decreases by Amount.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"group_id"`

	// FromParticipantID is the participant who paid (debtor settling up).
	FromParticipantID string `json:"from_participant_id"`

	// ToParticipantID is the participant who received payment.
	ToParticipantID string `json:"to_participant_id"`

	// Amount is the payment amount; always positive.
	Amount float64 `json:"amount"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"created_at"`

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string `json:"created_by,omitempty"`

	// Note is an optional description for the settlement.
	Note string `json:"note,omitempty"`
}
