package history

// Ring is a bounded list of records ordered most-recent-first. Pushing past
// the limit evicts the oldest record. Ring is not safe for concurrent use;
// owners serialize access.
type Ring struct {
	limit   int
	records []Record
}

// NewRing creates a ring holding at most limit records. A limit below one
// falls back to DefaultLimit.
func NewRing(limit int) *Ring {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Ring{limit: limit}
}

// Push inserts rec at the head and trims the tail to the limit.
func (r *Ring) Push(rec Record) {
	r.records = append(r.records, Record{})
	copy(r.records[1:], r.records)
	r.records[0] = rec

	if len(r.records) > r.limit {
		clear(r.records[r.limit:])
		r.records = r.records[:r.limit]
	}
}

// Len returns the number of records held.
func (r *Ring) Len() int {
	return len(r.records)
}

// Latest returns the most recent record.
func (r *Ring) Latest() (Record, bool) {
	if len(r.records) == 0 {
		return Record{}, false
	}
	return r.records[0], true
}

// Snapshot returns a copy of the records, most recent first.
func (r *Ring) Snapshot() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Reset drops every record.
func (r *Ring) Reset() {
	r.records = nil
}
