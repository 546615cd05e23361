package donation

import "time"

// Status tracks a donation through review.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Donation is a recorded contribution. EncryptedPhone holds the cipher
// envelope, never plaintext; Signature attests the canonical record
// string against the process signing key.
type Donation struct {
	ID             string
	DonorEmail     string
	EncryptedPhone string
	Amount         int64 // minor currency units
	Purpose        string
	Status         Status
	Signature      string
	CreatedAt      time.Time
}
