package encryption

// Result represents the outcome of processing a single file.
type Result struct {
	// Input file path
	Input string

	// Output file path
	Output string

	// Key file written or read for this file, empty when a shared key was used
	KeyFile string

	// Output file size in bytes
	OutputSize int64

	// Any error that occurred during processing
	Error error
}
