package models

// Group represents a set of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Goa Trip", "Flatmates").
	Name string

	// CreatedBy is the user ID of the group creator. The creator acts as
	// the group admin for expense edits and deletions.
	CreatedBy string

	// Members is the list of user IDs in this group. The creator is always
	// a member.
	Members []string

	// IsActive is false once the group has been deactivated. Inactive
	// groups reject new expenses.
	IsActive bool

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last group activity.
	UpdatedAt int64
}

// HasMember reports whether userID belongs to the group. The creator
// counts as a member even if absent from Members.
func (g *Group) HasMember(userID string) bool {
	if g.CreatedBy == userID {
		return true
	}
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
