// Package mediatypes classifies filesystem entries into the three media
// categories handled by the pipeline (image, video, other) based on their
// file extension, and normalizes extensions for record fields.
//
// Supported file types:
//   - Images: jpg, jpeg, png, webp, cr2, cr3
//   - Videos: mp4, mov, avi, mkv, m4v, 3gp, gif
//
// Everything else is classified as "other". The extension sets are fixed;
// consumers index on the returned category unconditionally.
package mediatypes
