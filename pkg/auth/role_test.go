package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()
	r, err := ParseRole("admin")
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, r)

	_, err = ParseRole("librarian")
	require.Error(t, err)
	require.False(t, Role("").Valid())
}

func TestRole_Can(t *testing.T) {
	t.Parallel()
	require.True(t, RoleUser.Can(PermReadCatalog))
	require.True(t, RoleUser.Can(PermBorrow))
	require.False(t, RoleUser.Can(PermManageCatalog))
	require.False(t, RoleUser.Can(PermManageLoans|PermBorrow))
	require.True(t, RoleAdmin.Can(PermManageMembers|PermManageLoans))
	require.False(t, Role("ghost").Can(PermReadCatalog))
	require.False(t, RoleAdmin.Can(0))
}

func TestAuthContext(t *testing.T) {
	t.Parallel()
	_, ok := FromContext(context.Background())
	require.False(t, ok)

	ctx := SetAuthContext(context.Background(), 9, RoleUser)
	id, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, Identity{UserID: 9, Role: RoleUser}, id)
}
