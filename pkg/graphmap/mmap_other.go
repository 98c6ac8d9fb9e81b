//go:build !unix

package graphmap

import (
	"io"
	"os"
)

// mapFile reads the whole file on platforms without mmap support. The graph
// then lives on the heap and Close only drops the reference.
func mapFile(f *os.File, size int) ([]byte, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	return data, nil
}

func unmap([]byte) error {
	return nil
}
