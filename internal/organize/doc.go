// Package organize copies a file list into a directory tree derived from
// decoded metadata. The destination of each file is built from an optional
// media-type bucket (Photos, Videos, Other) followed by an ordered list of
// structure dimensions (Year, Month, Model, Lens); unresolvable dimensions
// collapse into a single "No Info" level.
//
// Every failure is absorbed per file: extraction failures route the file
// to "No Info", copy failures are recorded and reported. A run always ends
// with a report rather than a partial exception.
package organize
