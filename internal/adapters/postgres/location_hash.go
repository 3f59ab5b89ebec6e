package postgres

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"property-service/internal/core/domain"

	"github.com/mmcloughlin/geohash"
)

// ~5km cells: close enough that two listings in the same cell with matching
// key attributes are likely the same physical property.
const geohashPrecision = 5

// locationHash fingerprints a listing by location cell plus its most stable
// attributes. Duplicate submissions land on the same hash even when titles
// and descriptions differ.
func locationHash(record domain.PropertyRecord) string {
	cell := geohash.Encode(record.Latitude, record.Longitude)

	parts := []string{
		cell[:geohashPrecision],
		record.PropertyType,
		fmt.Sprintf("%d", areaBucket(record.Area, 2.0)),
		fmt.Sprintf("%d", record.Bedrooms),
		strings.ToLower(strings.TrimSpace(record.ZipCode)),
	}

	digest := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", digest)
}

// areaBucket coarsens the area so measurement noise between listings of the
// same property does not change the hash.
func areaBucket(area, bucketSize float64) int {
	if bucketSize <= 0 {
		bucketSize = 1.0
	}
	return int(area / bucketSize)
}
