package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Both collections store created_at as a BSON datetime. Millisecond precision
// is the most BSON carries; nothing coarser is acceptable.
func TestCreatedAtStoredAsDatetime(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

	docs := map[string]any{
		"users":   mongoUser{Name: "Ava", Email: "ava@x.com", Role: "student", CreatedAt: created},
		"courses": mongoCourse{CourseName: "CS101", CreatedAt: created},
	}

	for coll, doc := range docs {
		raw, err := bson.Marshal(doc)
		if err != nil {
			t.Fatalf("%s: marshal failed: %v", coll, err)
		}

		var fields bson.M
		if err := bson.Unmarshal(raw, &fields); err != nil {
			t.Fatalf("%s: unmarshal failed: %v", coll, err)
		}

		dt, ok := fields["created_at"].(primitive.DateTime)
		if !ok {
			t.Fatalf("%s: created_at stored as %T, want primitive.DateTime", coll, fields["created_at"])
		}
		if got := dt.Time().UTC(); !got.Equal(created) {
			t.Fatalf("%s: created_at lost precision: got %v, want %v", coll, got, created)
		}
	}
}
