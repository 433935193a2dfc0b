// ABOUTME: Typed errors for the answering and learning paths
// ABOUTME: Learning-path failures are always local and never alter an answer
package core

import "errors"

var (
	// ErrRetrieval marks an unavailable search backend; the answerer
	// degrades to an empty context instead of failing the question.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrExtractionParse marks extractor output that could not be parsed;
	// the exchange simply teaches nothing.
	ErrExtractionParse = errors.New("extraction output could not be parsed")
)
