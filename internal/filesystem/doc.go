// Package filesystem provides stat/open helpers with retry logic for
// network filesystems.
//
// Photo libraries frequently live on NFS mounts, where a directory that was
// re-exported mid-scan surfaces ESTALE ("stale file handle") errors on
// paths that are otherwise perfectly valid. The helpers here retry only
// that error class with exponential backoff; every other error is returned
// to the caller immediately so per-file failure handling stays accurate.
package filesystem
