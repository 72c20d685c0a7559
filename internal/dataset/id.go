package dataset

import (
	"crypto/md5"
	"encoding/hex"
)

// hashLen is the number of hex digits of the digest kept in an id.
const hashLen = 6

// LocationHash returns the first six hex digits of md5("<path> <locationID>").
func LocationHash(path CategoryPath, locationID string) string {
	sum := md5.Sum([]byte(path.String() + " " + locationID))
	return hex.EncodeToString(sum[:])[:hashLen]
}

// DeriveID builds the id of an entry from its simplified name, category
// path and resolved location id. The same inputs always give the same id;
// a different path or location gives a different suffix.
func DeriveID(simpleName string, path CategoryPath, locationID string) string {
	return simpleName + "-" + LocationHash(path, locationID)
}
