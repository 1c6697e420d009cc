package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainRun = "launchcheck/run/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RunID computes the content-addressed identity of a test run: the generator
// name plus the bound arguments. The same generator with the same arguments
// always yields the same ID, across processes and machines.
func RunID(generator string, args IRObject) (string, error) {
	if args == nil {
		args = IRObject{}
	}
	obj := IRObject{
		"generator": IRString(generator),
		"args":      args,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RunID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainRun, canonical), nil
}
