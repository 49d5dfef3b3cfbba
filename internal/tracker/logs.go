package tracker

// MergeLogs builds the display timeline for a run: locally synthesized
// entries first, in generation order, followed by the server-reported entries
// verbatim. The two streams are disjoint sources concatenated in a fixed
// precedence; no deduplication or timestamp interleaving is performed.
//
// The result is a fresh slice, re-derived per snapshot, so callers can hold
// on to it without observing later mutation.
func MergeLogs(local, remote []string) []string {
	merged := make([]string, 0, len(local)+len(remote))
	merged = append(merged, local...)
	return append(merged, remote...)
}
