package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type stampedRecord struct {
	Name      string
	CreatedAt time.Time
}

func (r stampedRecord) CreatedTime() time.Time { return r.CreatedAt }

func TestSortNewestFirst_Ordering(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []stampedRecord{
		{Name: "oldest", CreatedAt: base},
		{Name: "newest", CreatedAt: base.Add(2 * time.Hour)},
		{Name: "middle", CreatedAt: base.Add(time.Hour)},
	}

	sorted := sortNewestFirst(records, false)
	require.Len(t, sorted, 3)
	assert.Equal(t, "newest", sorted[0].Name)
	assert.Equal(t, "middle", sorted[1].Name)
	assert.Equal(t, "oldest", sorted[2].Name)
}

func TestSortNewestFirst_MissingAsNowRanksFirst(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []stampedRecord{
		{Name: "stamped", CreatedAt: base},
		{Name: "unstamped"},
	}

	sorted := sortNewestFirst(records, true)
	require.Len(t, sorted, 2)
	assert.Equal(t, "unstamped", sorted[0].Name)
	assert.Equal(t, "stamped", sorted[1].Name)
}

func TestSortNewestFirst_MissingExcludedOtherwise(t *testing.T) {
	records := []stampedRecord{
		{Name: "stamped", CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		{Name: "unstamped"},
	}

	sorted := sortNewestFirst(records, false)
	require.Len(t, sorted, 1)
	assert.Equal(t, "stamped", sorted[0].Name)
}

func TestSortNewestFirst_RerankServerSortedInput(t *testing.T) {
	// A descending server sort puts records without a createdAt last.
	// Re-ranking that output must move them to the front, the same
	// position the degraded path gives them.
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	serverOrder := []stampedRecord{
		{Name: "newest", CreatedAt: base.Add(time.Hour)},
		{Name: "oldest", CreatedAt: base},
		{Name: "unstamped"},
	}

	sorted := sortNewestFirst(serverOrder, true)
	require.Len(t, sorted, 3)
	assert.Equal(t, "unstamped", sorted[0].Name)
	assert.Equal(t, "newest", sorted[1].Name)
	assert.Equal(t, "oldest", sorted[2].Name)
}

func TestStampedOnly(t *testing.T) {
	filter := bson.M{"authorId": "abc"}
	narrowed := stampedOnly(filter)

	assert.Equal(t, "abc", narrowed["authorId"])
	assert.Equal(t, bson.M{"$gt": time.Time{}}, narrowed["createdAt"])

	// The caller's filter is not mutated.
	assert.NotContains(t, filter, "createdAt")
}

func TestSortNewestFirst_StableForEqualTimes(t *testing.T) {
	stamp := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []stampedRecord{
		{Name: "first", CreatedAt: stamp},
		{Name: "second", CreatedAt: stamp},
	}

	sorted := sortNewestFirst(records, false)
	require.Len(t, sorted, 2)
	assert.Equal(t, "first", sorted[0].Name)
	assert.Equal(t, "second", sorted[1].Name)
}

func TestIsSortUnavailable(t *testing.T) {
	assert.True(t, isSortUnavailable(mongo.CommandError{Code: 292, Message: "Sort exceeded memory limit"}))
	assert.True(t, isSortUnavailable(mongo.CommandError{Code: 96, Message: "OperationFailed"}))
	assert.True(t, isSortUnavailable(errors.New("query requires an index to support sort")))
	assert.True(t, isSortUnavailable(fmt.Errorf("decode: %w", mongo.CommandError{Code: 292})))

	assert.False(t, isSortUnavailable(errors.New("connection refused")))
	assert.False(t, isSortUnavailable(mongo.CommandError{Code: 11000, Message: "duplicate key"}))
	assert.False(t, isSortUnavailable(errors.New("index build in progress")))
}
