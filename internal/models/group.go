package models

// Participant is one person taking part in a split.
//
// Cosmetic attributes (avatar color etc.) live in the frontend; the engine
// only consumes the ID and, for display, the name. Participant order within a
// group is significant: settlement tie-breaking follows first appearance.
type Participant struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Group represents a reusable participant list (e.g. "Roommates",
// "Ski Trip"). Groups own receipts and recorded settlements, enabling a
// running balance across many receipts.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group.
	Name string `json:"name"`

	// Members is the ordered list of participants in this group.
	Members []Participant `json:"members"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// MemberIDs returns the participant ids in stable group order.
func (g Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}
