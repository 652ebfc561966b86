// Package dispatch provides an async pipeline in front of the notifier:
// queue + worker pool + rate limit + dedup.
//
// Single interactive sends don't need it; it exists for batch producers
// (stdin feeds, schedule bursts) where showing every duplicate popup at
// full speed would drown the desktop. Deduplication is a time window over
// identical (title, body, tag) triples, kept in memory only.
package dispatch
