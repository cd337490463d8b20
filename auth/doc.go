// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides principal identity and key utilities.

# Principal Addresses

Principals (the administrator and voters) are identified by 20-byte
addresses written as 0x-prefixed hex:

	addr, err := auth.ParseAddress("0x52908400098527886E0F7030069857D2E4169EE7")

Both checksummed and lowercase forms are accepted. The zero address is
rejected since it is never a valid principal.

# Principal Keys

Principal keys use HMAC-SHA256 over the address bytes:

	key := auth.GeneratePrincipalKey(addr, salt)
	err := auth.ValidatePrincipalKey(addr, key, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same address and salt always produce the same key. This allows validation
without storing keys in the database. The administrator's key is logged at
startup; a voter's key is returned once when the voter is registered.
*/
package auth
