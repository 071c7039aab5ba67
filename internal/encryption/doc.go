// Package encryption applies the Hill cipher to files on disk.
// Files are processed concurrently, outputs are written atomically and, without a
// shared key file, every encrypted file gets its own key saved next to it.
package encryption
