package entity

// Contribution represents one cooperative contribution payment. Amount and
// Timestamp arrive from the mobile clients as strings and are parsed
// leniently by the detectors; garbled values count as zero rather than
// failing a detection run.
type Contribution struct {
	ID        string `bson:"_id,omitempty"`
	DriverID  string `bson:"driverId"`
	Amount    string `bson:"amount"`
	Timestamp string `bson:"timestamp"` // unix seconds
}
