//go:build linux

package snapshot

import (
	"errors"
	"io"
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// maxIOV is the kernel's IOV_MAX; longer vector lists are split into batches.
const maxIOV = 1024

// writeVectors gathers vecs into f with writev, one I/O vector per span.
func writeVectors(f *os.File, vecs [][]byte) error {
	defer runtime.KeepAlive(f)
	fd := int(f.Fd())
	vecs = trimEmpty(vecs)
	for len(vecs) > 0 {
		batch := vecs[:min(len(vecs), maxIOV)]
		n, err := unix.Writev(fd, batch)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		vecs = advance(vecs, n)
	}
	return nil
}

// readVectors scatters the contents of f into vecs with readv.
func readVectors(f *os.File, vecs [][]byte) error {
	defer runtime.KeepAlive(f)
	fd := int(f.Fd())
	vecs = trimEmpty(vecs)
	for len(vecs) > 0 {
		batch := vecs[:min(len(vecs), maxIOV)]
		n, err := unix.Readv(fd, batch)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrUnexpectedEOF
		}
		vecs = advance(vecs, n)
	}
	return nil
}
