package entities

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/whiteelite/garage/internal/platform/errors"
)

// NewIdentity returns a short random identity: a v4 UUID in base58.
func NewIdentity() Identity {
	u := uuid.New()
	return Identity(base58.Encode(u[:]))
}

// ValidateIdentity rejects blank identities.
func ValidateIdentity(id Identity) error {
	if strings.TrimSpace(string(id)) == "" {
		return errors.New(errors.CodeInvalidRecord, "identity is required")
	}
	return nil
}
