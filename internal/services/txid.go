package services

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// NewTransactionID builds a card payment reference:
// upper(first two chars of method) + YYMMDD + last six chars of the user id +
// eight hex chars of randomness.
func NewTransactionID(method, userID string, at time.Time) (string, error) {
	prefix := method
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	suffix := userID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return strings.ToUpper(prefix) + at.Format("060102") + suffix + hex.EncodeToString(b[:]), nil
}
