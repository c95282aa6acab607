package auth

import "github.com/mmynk/splitledger/internal/models"

// Kind classifies the caller of a request relative to the record it touches.
type Kind int

const (
	// Guest callers carry no valid token. They may read.
	Guest Kind = iota
	// Authenticated callers may create bills and edit payments.
	Authenticated
	// Owner is an authenticated caller that created the bill at hand.
	Owner
)

func (k Kind) String() string {
	switch k {
	case Authenticated:
		return "authenticated"
	case Owner:
		return "owner"
	default:
		return "guest"
	}
}

// Identity is the caller attached to a request context.
type Identity struct {
	UserID string
	Email  string
}

// IsGuest reports whether the caller is anonymous.
func (id Identity) IsGuest() bool {
	return id.UserID == ""
}

// KindFor classifies the caller against bill. A nil bill yields Guest or
// Authenticated only.
func (id Identity) KindFor(bill *models.Bill) Kind {
	switch {
	case id.IsGuest():
		return Guest
	case bill != nil && bill.OwnerID == id.UserID:
		return Owner
	default:
		return Authenticated
	}
}
