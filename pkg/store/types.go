package store

import "time"

// CallRecord is one telephony session.
//
// SessionID is the provider-assigned token correlating all callback
// events for the call; it is unique and is the sole key external events
// use to locate a record. Direction is set once at creation. Status moves
// through the telephony vocabulary and may later reach the terminal
// enrichment marker "processed" (see pkg/call).
type CallRecord struct {
	ID              string    `json:"id" msgpack:"id"`
	SessionID       string    `json:"sessionId,omitempty" msgpack:"sid,omitempty"`
	ContactID       string    `json:"contactId,omitempty" msgpack:"cid,omitempty"`
	Direction       string    `json:"direction" msgpack:"dir"`
	Status          string    `json:"status" msgpack:"st"`
	Transcript      string    `json:"transcript,omitempty" msgpack:"tr,omitempty"`
	Summary         string    `json:"summary,omitempty" msgpack:"sum,omitempty"`
	SentimentLabel  string    `json:"sentimentLabel,omitempty" msgpack:"sl,omitempty"`
	SentimentScore  *float64  `json:"sentimentScore,omitempty" msgpack:"ss,omitempty"`
	Highlights      []string  `json:"highlights,omitempty" msgpack:"hl,omitempty"`
	RecordingURL    string    `json:"recordingUrl,omitempty" msgpack:"rec,omitempty"`
	DurationSeconds int       `json:"durationSeconds,omitempty" msgpack:"dur,omitempty"`
	CreatedAt       time.Time `json:"createdAt" msgpack:"ca"`
	UpdatedAt       time.Time `json:"updatedAt" msgpack:"ua"`
}

// Clone returns a deep copy of the record.
func (r *CallRecord) Clone() *CallRecord {
	if r == nil {
		return nil
	}
	v := *r
	if r.SentimentScore != nil {
		score := *r.SentimentScore
		v.SentimentScore = &score
	}
	if r.Highlights != nil {
		v.Highlights = append([]string(nil), r.Highlights...)
	}
	return &v
}

// Contact is an identity with a unique phone number.
// Identity is immutable once created; label, messaging address, and
// metadata may be updated by later upserts.
type Contact struct {
	ID        string         `json:"id" msgpack:"id"`
	Name      string         `json:"name" msgpack:"name"`
	Phone     string         `json:"phone" msgpack:"phone"`
	WhatsApp  string         `json:"whatsapp,omitempty" msgpack:"wa,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty" msgpack:"meta,omitempty"`
	CreatedAt time.Time      `json:"createdAt" msgpack:"ca"`
	UpdatedAt time.Time      `json:"updatedAt" msgpack:"ua"`
}

// Clone returns a deep copy of the contact.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	v := *c
	if c.Metadata != nil {
		v.Metadata = make(map[string]any, len(c.Metadata))
		for k, val := range c.Metadata {
			v.Metadata[k] = val
		}
	}
	return &v
}

// Profile is the enrolled voice signature for one contact.
// Re-enrollment replaces the whole profile; verification never mutates it.
type Profile struct {
	ContactID      string    `json:"contactId" msgpack:"cid"`
	VoiceSignature []float32 `json:"voiceSignature" msgpack:"vec"`
	SampleRate     int       `json:"sampleRate" msgpack:"sr"`
	Label          string    `json:"label,omitempty" msgpack:"label,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt" msgpack:"ua"`
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	v := *p
	v.VoiceSignature = append([]float32(nil), p.VoiceSignature...)
	return &v
}
