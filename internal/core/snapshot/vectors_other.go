//go:build !linux

package snapshot

import (
	"io"
	"os"
)

// writeVectors writes each span in turn where writev is unavailable.
func writeVectors(f *os.File, vecs [][]byte) error {
	for _, v := range vecs {
		if _, err := f.Write(v); err != nil {
			return err
		}
	}
	return nil
}

// readVectors fills each span in turn where readv is unavailable.
func readVectors(f *os.File, vecs [][]byte) error {
	for _, v := range vecs {
		if _, err := io.ReadFull(f, v); err != nil {
			return err
		}
	}
	return nil
}
