package sampler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTenantHashIsDeterministic(t *testing.T) {
	require.Equal(t, tenantHash("acme-corp"), tenantHash("acme-corp"))
}

func TestTenantHashDiffersAcrossTenants(t *testing.T) {
	require.NotEqual(t, tenantHash("acme-corp"), tenantHash("other-corp"))
}

func TestVendorKeyFormat(t *testing.T) {
	key := vendorKey("acme-corp", 0xab)
	require.Regexp(t, `^[0-9a-f]+-ab@dt$`, key)
}

func TestVendorKeyClusterIDHasNoLeadingZeros(t *testing.T) {
	key := vendorKey("t", 5)
	require.Regexp(t, `^[0-9a-f]+-5@dt$`, key)
}
