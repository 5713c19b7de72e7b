package sampler

import (
	"crypto/md5" //nolint:gosec // not used for anything security-sensitive, only as a fast well-distributed fold
	"encoding/binary"
	"fmt"
)

// tenantHash folds tenant's MD5 digest down to a 32-bit value by XORing its
// four big-endian words together.
func tenantHash(tenant string) uint32 {
	sum := md5.Sum([]byte(tenant)) //nolint:gosec
	var h uint32
	for i := 0; i < len(sum); i += 4 {
		h ^= binary.BigEndian.Uint32(sum[i : i+4])
	}
	return h
}

// vendorKey builds the tenant-scoped tracestate key this sampler reads and
// writes its decision under: "<tenant_id_hashed>-<cluster_id_hex>@dt".
func vendorKey(tenant string, clusterID uint32) string {
	return fmt.Sprintf("%x-%x@dt", tenantHash(tenant), clusterID)
}
