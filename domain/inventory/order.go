package inventory

import "time"

// Order records one successful deduction.
type Order struct {
	SeqID     uint64
	UserID    uint32
	ProductID uint32
	Qty       uint32
	At        time.Time
}
