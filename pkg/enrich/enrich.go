// Package enrich derives transcript, summary, and sentiment for a
// completed call and writes the terminal "processed" state.
//
// Unlike the event merge in pkg/call, enrichment is a single logical unit
// of work: either every derived field is committed together with the
// processed status, or nothing is written at all. A failed enrichment
// leaves the record in its pre-enrichment state and can be retried by
// resubmitting the same call id and recording URL — the retry only ever
// overwrites with a fresh consistent snapshot.
package enrich

import "context"

// Transcriber turns a recording URL into text.
type Transcriber interface {
	Transcribe(ctx context.Context, recordingURL string) (string, error)
}

// TranscribeFunc adapts a function to the Transcriber interface.
type TranscribeFunc func(ctx context.Context, recordingURL string) (string, error)

func (f TranscribeFunc) Transcribe(ctx context.Context, recordingURL string) (string, error) {
	return f(ctx, recordingURL)
}

// Summarizer condenses a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Sentiment is the sentiment assessment for a transcript.
type Sentiment struct {
	// Label is one of "positive", "neutral", "negative".
	Label string `json:"sentiment"`

	// Score is the model's confidence in the label, in [0, 1].
	Score float64 `json:"score"`

	// Highlights are notable quotes or moments, in transcript order.
	Highlights []string `json:"highlights"`
}

// SentimentAnalyzer assesses the sentiment of a transcript.
type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, transcript string) (Sentiment, error)
}
