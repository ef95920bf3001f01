// Package main provides the gallery-inspector command line tool.
//
// gallery-inspector analyzes photo and video collections and reorganizes
// them by metadata. Two subcommands are available:
//
//	analyze  <dir>  scan a directory tree, decode metadata and write a
//	                spreadsheet report with one sheet per media category
//	organize <dir>  copy files into a metadata-derived directory tree
//	                (Photos/Videos buckets, Year/Month/Model/Lens levels),
//	                optionally narrowed by metadata filters
//
// Both subcommands report progress on the terminal and stop cleanly on
// SIGINT: in-flight work finishes, no new work is started, and organize
// leaves already-copied files in place.
//
// An optional Prometheus endpoint (--metrics-addr) exposes scan and copy
// counters while a run is in progress.
package main
