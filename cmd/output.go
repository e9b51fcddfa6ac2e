package cmd

import "os"

// OutputWriter is the destination for user-facing command output
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// DefaultOutput is the writer used in production
var DefaultOutput OutputWriter = os.Stdout
