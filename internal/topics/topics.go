// Package topics implements the deterministic round-robin topic
// selection helper used by registrants, separate from discovery and
// routing: given a universe of num_topics names and an iteration index,
// it picks which topic a publisher samples next or a subscriber filters
// on. It knows nothing about discovery, routing, or the wire format.
package topics

import "fmt"

// Universe names num_topics topics as "topic-0".."topic-(n-1)", matching
// the generated topic names a publisher/subscriber CLI invocation would
// construct from --num_topics.
func Universe(numTopics int) []string {
	names := make([]string, numTopics)
	for i := range names {
		names[i] = fmt.Sprintf("topic-%d", i)
	}
	return names
}

// RoundRobin returns the topic a publisher or subscriber should use on
// iteration i (0-based) out of a universe of numTopics topics.
func RoundRobin(numTopics, iteration int) string {
	if numTopics <= 0 {
		return ""
	}
	idx := iteration % numTopics
	if idx < 0 {
		idx += numTopics
	}
	return fmt.Sprintf("topic-%d", idx)
}
