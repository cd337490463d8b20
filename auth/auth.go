// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInvalidAddress      = errors.New("invalid principal address")
	ErrInvalidPrincipalKey = errors.New("invalid principal key")
)

// ParseAddress parses a 0x-prefixed, 20-byte hex principal address.
// The zero address is rejected.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return common.Address{}, ErrInvalidAddress
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, ErrInvalidAddress
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return common.Address{}, ErrInvalidAddress
	}
	return addr, nil
}

// GeneratePrincipalKey creates the HMAC-based key a principal presents with
// each request. It is deterministic, so keys never need to be stored.
func GeneratePrincipalKey(addr common.Address, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	// Keys are bound to the raw address bytes, not its hex casing
	h.Write(addr.Bytes())
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidatePrincipalKey checks key against the key issued for addr.
func ValidatePrincipalKey(addr common.Address, key, salt string) error {
	expected := GeneratePrincipalKey(addr, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidPrincipalKey
	}
	return nil
}
