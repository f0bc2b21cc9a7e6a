package call

import "strconv"

// Update is a sparse field set carried by one provider event.
//
// A nil field means "leave unchanged"; this is distinct from an explicit
// zero, which is a real value to write. Events are merged into the
// record field by field, so applying the same Update twice yields the
// same record as applying it once.
type Update struct {
	Status          *string
	Transcript      *string
	SentimentScore  *float64
	DurationSeconds *int
	RecordingURL    *string
}

// IsZero reports whether the update carries no fields.
func (u Update) IsZero() bool {
	return u.Status == nil && u.Transcript == nil && u.SentimentScore == nil &&
		u.DurationSeconds == nil && u.RecordingURL == nil
}

// String returns a pointer to s. Convenience for building updates.
func String(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// ParseInt parses a decimal field from a provider payload.
// Unparseable values are dropped (nil), not rejected: the provider
// occasionally sends empty or malformed numerics and the rest of the
// event is still worth applying.
func ParseInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// ParseFloat parses a float field from a provider payload.
// Unparseable values are dropped, as with ParseInt.
func ParseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
