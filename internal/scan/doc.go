// Package scan walks a directory tree and decodes every file into a
// metadata record using a bounded worker pool.
//
// Enumeration is a separate, sequential phase that completes before any
// decoding starts so the total file count is known and progress can be
// reported as a fraction. Decoding then runs on a fixed number of worker
// goroutines; records are collected in completion order.
package scan
