// Package evaluate judges the quality of a ranked result set.
//
// The quality score combines three parts: up to 0.4 for the number of
// results, up to 0.4 for their average relevance, and a 0.2 bonus once the
// set is diverse enough. A set scoring below the threshold collects
// improvement notes, and when a reasoner is available the original query is
// rewritten once and re-interpreted. The caller decides whether to search
// again with it.
package evaluate
