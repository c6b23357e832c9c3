package requestlog

// Logger is the minimal interface for recording entries.
type Logger interface {
	Log(entry *Entry)
}

// Store defines the interface for request history storage.
type Store interface {
	Logger

	// Get retrieves an entry by ID.
	Get(id string) *Entry

	// List returns entries in the order they were logged, optionally filtered.
	List(filter *Filter) []*Entry

	// Clear removes all entries.
	Clear()

	// Count returns the number of entries.
	Count() int
}

// Filter defines criteria for listing entries. Zero-valued fields are
// ignored.
type Filter struct {
	// Method filters by lower-case HTTP method.
	Method string

	// URL filters by exact URL.
	URL string

	// MatchedID filters by matched handler ID.
	MatchedID string

	// HasError filters by error presence.
	HasError *bool

	// Limit is the maximum number of entries to return.
	Limit int
}

// Matches reports whether e satisfies the filter.
func (f *Filter) Matches(e *Entry) bool {
	if f == nil {
		return true
	}
	if f.Method != "" && f.Method != e.Method {
		return false
	}
	if f.URL != "" && f.URL != e.URL {
		return false
	}
	if f.MatchedID != "" && f.MatchedID != e.MatchedHandlerID {
		return false
	}
	if f.HasError != nil && *f.HasError != (e.Error != "") {
		return false
	}
	return true
}
