// Package decode extracts normalized metadata records from media files.
//
// Dispatch is by lowercased extension: standard images (jpg, jpeg, png,
// webp) read pixel dimensions from the container and EXIF through an
// ordered list of named strategies; RAW files (cr2, cr3) use a
// TIFF-structured EXIF read or container-level track attributes; videos
// read container track metadata; everything else gets a bare record with
// name, filetype, directory and size only.
//
// Decoders never fail a run. An unreadable file yields a nil record (the
// file is excluded from its category); malformed metadata degrades the
// affected fields to nil and keeps the record.
package decode
