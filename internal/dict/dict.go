package dict

import "context"

// Entry is one dictionary record, schema-compatible with the JMdict import.
type Entry struct {
	EntSeq     int64
	Expression string
	Reading    string
	Glosses    []string // up to three
	Pos        string
	Common     bool
}

// Key returns the kana string cards should be keyed on: the reading when
// present, otherwise the expression (kana-only entries store it there).
func (e Entry) Key() string {
	if e.Reading != "" {
		return e.Reading
	}
	return e.Expression
}

// Repository is the lexical store. Lookup is exact-match on expression or
// reading; when several entries match, the one flagged common wins.
type Repository interface {
	Lookup(ctx context.Context, term string) (Entry, error)
	InsertEntries(ctx context.Context, entries []Entry) error
	Count(ctx context.Context) (int64, error)
	Close() error
}
