package roletree

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Role is an opaque 256-bit authorization tag, a node in the hierarchy
// tree. Roles are usually derived from a human-readable name with
// NewRole; any fixed 32-byte value works as long as it is unique.
//
// The zero value is the reserved Root role.
type Role [32]byte

// Root is the unique tree root. It exists from initialization, is its
// own admin, and a holder of Root can act as any role.
var Root = Role{}

// Principal is an opaque account identifier holding at most one role.
// The empty string is the reserved null identity and is never a valid
// principal.
type Principal string

// Nobody is the null identity. It is rejected everywhere a principal
// is accepted.
const Nobody Principal = ""

// NewRole derives a role tag from a name using SHA3-256.
//
// Example:
//
//	manager := roletree.NewRole("MANAGER")
func NewRole(name string) Role {
	return Role(sha3.Sum256([]byte(name)))
}

// RoleFromHex parses a role tag from its 64-character hex form, with or
// without a leading "0x".
func RoleFromHex(s string) (Role, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Role{}, fmt.Errorf("roletree: invalid role hex %q: %w", s, err)
	}
	if len(b) != len(Role{}) {
		return Role{}, fmt.Errorf("roletree: invalid role length %d, want %d", len(b), len(Role{}))
	}
	var r Role
	copy(r[:], b)
	return r, nil
}

// IsRoot reports whether the role is the reserved Root role.
func (r Role) IsRoot() bool {
	return r == Root
}

// String returns the 0x-prefixed hex form of the role tag. This is the
// stable representation embedded in error messages and event records.
func (r Role) String() string {
	return "0x" + hex.EncodeToString(r[:])
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := RoleFromHex(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// IsNobody reports whether the principal is the null identity.
func (p Principal) IsNobody() bool {
	return p == Nobody
}

// String returns the principal identifier.
func (p Principal) String() string {
	return string(p)
}
