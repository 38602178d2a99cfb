package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// GenerateTicketNumber returns a number in TKT-YYMMDD-NNNNN form.
func GenerateTicketNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(100000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 100000)
	}
	return fmt.Sprintf("TKT-%s-%05d", now.Format("060102"), n.Int64())
}
