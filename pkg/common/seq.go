package common

import (
	"fmt"
	"math/rand"
	"time"
)

// SequenceNumber builds a human-readable document number of the form
// PREFIX-YYYY-NNNN (e.g. ORD-2026-0482). The 4-digit suffix is random, not a
// counter; global uniqueness is enforced by the unique index on the column,
// and callers retry on a conflict.
func SequenceNumber(prefix string) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, time.Now().Year(), rand.Intn(10000))
}
