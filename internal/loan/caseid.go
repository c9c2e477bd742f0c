package loan

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// CaseIDPrefix starts every case id.
const CaseIDPrefix = "HL"

// CaseIDFunc produces a candidate case id for the given instant.
type CaseIDFunc func(now time.Time) string

// NewCaseID formats a case id as HL-YYYY-NNNN.
func NewCaseID(year, suffix int) string {
	return fmt.Sprintf("%s-%04d-%04d", CaseIDPrefix, year, suffix%10000)
}

// RandomCaseID draws a random four digit suffix for the year of now. Uniqueness is
// enforced by the store; callers retry on collision.
func RandomCaseID(now time.Time) string {
	return NewCaseID(now.Year(), rand.IntN(10000))
}
