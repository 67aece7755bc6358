package roletree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	manager := NewRole("MANAGER")
	user := NewRole("USER")

	// Derivation is deterministic and collision-free for distinct names.
	assert.Equal(t, manager, NewRole("MANAGER"))
	assert.NotEqual(t, manager, user)
	assert.False(t, manager.IsRoot())
}

func TestRootIsZeroValue(t *testing.T) {
	var r Role
	assert.True(t, r.IsRoot())
	assert.Equal(t, Root, r)
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000000", Root.String())
}

func TestRoleHexRoundTrip(t *testing.T) {
	manager := NewRole("MANAGER")

	parsed, err := RoleFromHex(manager.String())
	require.NoError(t, err)
	assert.Equal(t, manager, parsed)

	// Without the 0x prefix too.
	parsed, err = RoleFromHex(manager.String()[2:])
	require.NoError(t, err)
	assert.Equal(t, manager, parsed)
}

func TestRoleFromHexErrors(t *testing.T) {
	_, err := RoleFromHex("0xzz")
	assert.Error(t, err)

	_, err = RoleFromHex("0xdeadbeef") // too short
	assert.Error(t, err)
}

func TestRoleTextMarshaling(t *testing.T) {
	manager := NewRole("MANAGER")

	text, err := manager.MarshalText()
	require.NoError(t, err)

	var decoded Role
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, manager, decoded)

	assert.Error(t, decoded.UnmarshalText([]byte("not-a-role")))
}

func TestPrincipalNobody(t *testing.T) {
	assert.True(t, Nobody.IsNobody())
	assert.False(t, Principal("alice").IsNobody())
	assert.Equal(t, "alice", Principal("alice").String())
}
