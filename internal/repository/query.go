package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Timestamped is implemented by collection records that are ordered by
// creation time.
type Timestamped interface {
	CreatedTime() time.Time
}

// isSortUnavailable reports whether err signals that the store could not
// execute a server-side sort, typically because the required compound index
// has not been provisioned. Mongo-compatible stores (DocumentDB, Cosmos)
// reject such queries outright; stock MongoDB rejects them once the
// in-memory sort limit is hit.
func isSortUnavailable(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 292: QueryExceededMemoryLimitNoDiskUseAllowed
		// 96:  OperationFailed, raised by index-requiring deployments
		if cmdErr.Code == 292 || cmdErr.Code == 96 {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "index") && strings.Contains(msg, "sort")
}

// findRecent fetches records matching an equality filter, newest first.
// It prefers a server-side sort on createdAt and degrades to fetching the
// unsorted match set and sorting client-side when the store signals that
// the sorted query cannot run. Both paths return the same logical ordering
// and the degraded path never drops records that carry a timestamp.
// missingAsNow controls what happens to records without a createdAt: true
// ranks them as most recent, false excludes them at the filter so neither
// path returns them. limit <= 0 means no limit.
func findRecent[T Timestamped](ctx context.Context, coll *mongo.Collection, filter bson.M, limit int64, missingAsNow bool) ([]T, error) {
	if !missingAsNow {
		filter = stampedOnly(filter)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := coll.Find(ctx, filter, opts)
	if err == nil {
		var records []T
		err = cursor.All(ctx, &records)
		if err == nil {
			// The server ranks records without a createdAt last in a
			// descending sort. Re-rank so they lead, matching the
			// degraded path.
			return sortNewestFirst(records, missingAsNow), nil
		}
	}
	if !isSortUnavailable(err) {
		return nil, fmt.Errorf("failed to fetch %s: %v", coll.Name(), err)
	}

	logrus.WithFields(logrus.Fields{
		"collection": coll.Name(),
		"error":      err,
	}).Warn("Sorted query unavailable, falling back to client-side sort")

	cursor, err = coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %v", coll.Name(), err)
	}
	var records []T
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %v", coll.Name(), err)
	}

	records = sortNewestFirst(records, missingAsNow)
	if limit > 0 && int64(len(records)) > limit {
		records = records[:limit]
	}
	return records, nil
}

// stampedOnly narrows filter to records carrying a createdAt. $gt over the
// zero time skips documents where the field is missing entirely as well as
// legacy records stored with a zero value.
func stampedOnly(filter bson.M) bson.M {
	out := bson.M{"createdAt": bson.M{"$gt": time.Time{}}}
	for k, v := range filter {
		out[k] = v
	}
	return out
}

// sortNewestFirst orders records by creation time descending. Records with
// a zero timestamp are ranked as "now" when missingAsNow is set, otherwise
// they are excluded.
func sortNewestFirst[T Timestamped](records []T, missingAsNow bool) []T {
	now := time.Now()

	kept := records[:0]
	for _, rec := range records {
		if rec.CreatedTime().IsZero() && !missingAsNow {
			continue
		}
		kept = append(kept, rec)
	}

	effective := func(rec T) time.Time {
		if t := rec.CreatedTime(); !t.IsZero() {
			return t
		}
		return now
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return effective(kept[i]).After(effective(kept[j]))
	})
	return kept
}
