// Package rule defines the closed set of call-recording rule variants,
// their fixed display ordering, and CEL-based call matching.
//
// A rule list is small (a few dozen entries at most) and totally ordered:
// contact rules sort first by display name, then the unknown-calls rule,
// then the all-calls rule. The same order doubles as match specificity
// when deciding whether a call should be recorded.
package rule
