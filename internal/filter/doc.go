// Package filter narrows a file list by evaluating decoded metadata
// against a conjunctive set of criteria. Input order is preserved; files
// that fail to decode are excluded rather than reported as errors.
package filter
