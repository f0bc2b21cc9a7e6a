package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/voiceline/voiceline/pkg/call"
	"github.com/voiceline/voiceline/pkg/store"
)

// ErrUpstream wraps any transcription or summarization collaborator
// failure. The caller may retry the whole enrichment; the pipeline itself
// performs no automatic retries.
var ErrUpstream = errors.New("enrich: upstream collaborator failed")

// DefaultTimeout bounds each collaborator call.
const DefaultTimeout = 2 * time.Minute

// Pipeline orchestrates transcription, summarization, and sentiment
// analysis for one call, then commits the result in a single write.
type Pipeline struct {
	store       store.Store
	transcriber Transcriber
	summarizer  Summarizer
	analyzer    SentimentAnalyzer
	timeout     time.Duration
}

// NewPipeline creates a Pipeline. A non-positive timeout falls back to
// [DefaultTimeout].
func NewPipeline(s store.Store, t Transcriber, sum Summarizer, a SentimentAnalyzer, timeout time.Duration) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pipeline{
		store:       s,
		transcriber: t,
		summarizer:  sum,
		analyzer:    a,
		timeout:     timeout,
	}
}

// Enrich transcribes the recording, derives summary and sentiment, and
// writes transcript, summary, sentiment label/score, highlights, and
// status=processed as one merged update.
//
// Any collaborator failure aborts the whole enrichment with an error
// wrapping [ErrUpstream] and commits nothing. Returns
// [store.ErrNotFound] when the call id does not exist.
func (p *Pipeline) Enrich(ctx context.Context, callID, recordingURL string) (*store.CallRecord, error) {
	if callID == "" {
		return nil, errors.New("enrich: call id is required")
	}
	if recordingURL == "" {
		return nil, errors.New("enrich: recording url is required")
	}

	// Confirm the record exists before spending collaborator budget.
	if _, err := p.store.GetCall(ctx, callID); err != nil {
		return nil, err
	}

	transcript, err := p.collab1(ctx, func(ctx context.Context) (string, error) {
		return p.transcriber.Transcribe(ctx, recordingURL)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: transcribe %s: %v", ErrUpstream, recordingURL, err)
	}

	summary, err := p.collab1(ctx, func(ctx context.Context) (string, error) {
		return p.summarizer.Summarize(ctx, transcript)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: summarize: %v", ErrUpstream, err)
	}

	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	sentiment, err := p.analyzer.AnalyzeSentiment(cctx, transcript)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: sentiment: %v", ErrUpstream, err)
	}

	// Single atomic commit of the full snapshot.
	rec, err := p.store.UpdateCall(ctx, callID, func(r *store.CallRecord) {
		r.Transcript = transcript
		r.Summary = summary
		r.SentimentLabel = sentiment.Label
		score := sentiment.Score
		r.SentimentScore = &score
		r.Highlights = sentiment.Highlights
		r.Status = call.StatusProcessed
	})
	if err != nil {
		return nil, fmt.Errorf("enrich: commit call %s: %w", callID, err)
	}
	return rec, nil
}

// EnrichBySession resolves a provider recording callback (session id +
// recording URL) to the internal call id and runs Enrich. Both trigger
// paths converge on the same contract.
func (p *Pipeline) EnrichBySession(ctx context.Context, sessionID, recordingURL string) (*store.CallRecord, error) {
	rec, err := p.store.GetCallBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return p.Enrich(ctx, rec.ID, recordingURL)
}

// collab1 runs one collaborator call under the pipeline timeout.
func (p *Pipeline) collab1(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return fn(cctx)
}
