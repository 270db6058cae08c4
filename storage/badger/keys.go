package badger

import (
	"bytes"
	"fmt"
)

// Key prefixes for different data types
const (
	updateRecordPrefix  = "updrec"
	updateProductPrefix = "updprod"
	checkpointSuffix    = "chkpt"
)

// keySep separates the product and record ID in index keys.
// It cannot occur in product IDs or record IDs.
const keySep = 0x00

// makeUpdateKey generates a key for an update record by ID.
func makeUpdateKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", updateRecordPrefix, id))
}

// updateKeyPrefix is the scan prefix for all update records.
func updateKeyPrefix() []byte {
	return []byte(updateRecordPrefix + ":")
}

// makeProductIndexKey generates a composite key for the product index.
// Format: prefix:product\x00id
func makeProductIndexKey(productID, recordID string) []byte {
	buf := makePartialProductIndexKey(productID)
	return append(buf, recordID...)
}

// makePartialProductIndexKey generates the scan prefix for one product.
// Format: prefix:product\x00
func makePartialProductIndexKey(productID string) []byte {
	prefix := updateProductPrefix + ":"
	buf := make([]byte, 0, len(prefix)+len(productID)+1)
	buf = append(buf, prefix...)
	buf = append(buf, productID...)
	return append(buf, keySep)
}

// recordIDFromIndexKey extracts the record ID from a product index key.
func recordIDFromIndexKey(key []byte) string {
	i := bytes.IndexByte(key, keySep)
	if i < 0 {
		return ""
	}
	return string(key[i+1:])
}

// makeCheckpointKey generates a key for import checkpoints.
func makeCheckpointKey(source string) []byte {
	return []byte(fmt.Sprintf("%s:%s", checkpointSuffix, source))
}
