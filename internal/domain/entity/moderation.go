package entity

// Moderation holds the two independent admin flags carried by every profile.
// The linked user's is_active column is derived from them.
type Moderation struct {
	IsApproved bool `gorm:"not null;default:false" json:"is_approved"`
	IsBlocked  bool `gorm:"not null;default:false" json:"is_blocked"`
}

// AccountActive is the activation gate: blocked wins over approved.
func AccountActive(approved, blocked bool) bool {
	return approved && !blocked
}

func (m Moderation) AccountActive() bool {
	return AccountActive(m.IsApproved, m.IsBlocked)
}

func (m *Moderation) Approve() {
	m.IsApproved = true
	m.IsBlocked = false
}

func (m *Moderation) Block() {
	m.IsBlocked = true
	m.IsApproved = false
}

// Unblock clears the block flag only; approval has to be granted again.
func (m *Moderation) Unblock() {
	m.IsBlocked = false
}
