package call

import "strings"

// statusMap translates the provider's status vocabulary into ours.
// Identity entries are listed so the table documents the full vocabulary.
var statusMap = map[string]string{
	"initiated":  StatusInitiated,
	"ringing":    StatusRinging,
	"inprogress": StatusInProgress,
	"answered":   StatusAnswered,
	"completed":  StatusCompleted,
	"busy":       StatusBusy,
	"failed":     StatusFailed,
	"noanswer":   StatusNoAnswer,
	"canceled":   StatusCanceled,
}

// NormalizeStatus maps a provider status token to the normalized
// vocabulary. Unrecognized tokens pass through verbatim: the provider is
// authoritative and rejecting an unknown status would only trigger a
// delivery retry for an event we would reject again.
func NormalizeStatus(token string) string {
	if mapped, ok := statusMap[strings.ToLower(token)]; ok {
		return mapped
	}
	return token
}
