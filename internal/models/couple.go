package models

import "time"

// Couple holds the shared settings of a linked pair. Its document id is the
// composite "{idA}_{idB}" key; new documents use the canonical (sorted)
// ordering, but both orderings exist in legacy data and must be probed.
type Couple struct {
	ID          string            `bson:"_id" json:"id"`
	UserIDs     []string          `bson:"userIds" json:"userIds"`
	Nicknames   map[string]string `bson:"nicknames" json:"nicknames"`
	Anniversary string            `bson:"anniversary,omitempty" json:"anniversary,omitempty"` // YYYY-MM-DD
	CreatedAt   time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// CoupleKey composes the canonical couple document id for two user ids,
// sorting them lexicographically so both partners derive the same key.
func CoupleKey(idA, idB string) string {
	if idB < idA {
		idA, idB = idB, idA
	}
	return idA + "_" + idB
}

// LegacyCoupleKeys returns both possible key orderings for a pair. Reads
// probe both because documents written before key canonicalization may use
// either ordering.
func LegacyCoupleKeys(idA, idB string) [2]string {
	return [2]string{idA + "_" + idB, idB + "_" + idA}
}
