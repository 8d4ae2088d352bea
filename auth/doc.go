// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing for election staff accounts.

# Hashing

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword("hq2024")

HashPassword uses DefaultCost (10). Seeding and tests can pick a cheaper
cost with HashPasswordCost.

# Verification

	if err := auth.CheckPassword(user.PasswordHash, candidate); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			// wrong password
		}
	}

Any other error means the stored hash is malformed.
*/
package auth
