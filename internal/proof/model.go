package proof

import "time"

// Proof is an expense receipt attached to a donation. Content is the
// base64-encoded receipt image or document; Signature attests it.
type Proof struct {
	ID          string
	DonationID  string
	Content     string
	Description string
	Signature   string
	UploadedAt  time.Time
}
