package graphmap

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"unsafe"

	"github.com/matzehuels/gjoin/pkg/errors"
)

const (
	headerSize = 8 // u64 node count
	offsetSize = 8 // u64 per offset
	edgeSize   = 4 // u32 per neighbor id
)

// Open maps the graph file at path read-only and validates its offset table.
// Failures to read the file are IO_ERROR (FILE_NOT_FOUND when it does not
// exist); an invalid layout is CORRUPT_GRAPH.
func Open(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open graph %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open graph %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "stat graph %s", path)
	}
	if info.Size() < headerSize {
		return nil, errors.New(errors.ErrCodeCorruptGraph, "%s: file too short for header (%d bytes)", path, info.Size())
	}

	data, err := mapFile(f, int(info.Size()))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "map graph %s", path)
	}

	g, err := decode(data)
	if err != nil {
		_ = unmap(data)
		return nil, errors.Wrap(errors.ErrCodeCorruptGraph, err, "load graph %s", path)
	}
	g.mapping = data
	return g, nil
}

// Decode parses an in-memory graph image. The result copies nothing when
// data is suitably aligned on a little-endian host, so data must outlive the
// graph and must not be modified.
func Decode(data []byte) (*Graph, error) {
	return decode(data)
}

func decode(data []byte) (*Graph, error) {
	size := uint64(len(data))
	if size < headerSize {
		return nil, errors.New(errors.ErrCodeCorruptGraph, "file too short for header (%d bytes)", size)
	}

	n := binary.LittleEndian.Uint64(data)
	if n > MaxNodes {
		return nil, errors.New(errors.ErrCodeCorruptGraph, "node count %d exceeds %d", n, MaxNodes)
	}
	edgeStart := headerSize + (n+1)*offsetSize
	if edgeStart > size {
		return nil, errors.New(errors.ErrCodeCorruptGraph, "offset table for %d nodes needs %d bytes, file has %d", n, edgeStart, size)
	}
	if (size-edgeStart)%edgeSize != 0 {
		return nil, errors.New(errors.ErrCodeCorruptGraph, "edge block of %d bytes is not a whole number of ids", size-edgeStart)
	}
	edgeCount := (size - edgeStart) / edgeSize

	g := &Graph{}
	if littleEndian && aligned(data) {
		g.offsets = unsafe.Slice((*uint64)(unsafe.Pointer(&data[headerSize])), n+1)
		if edgeCount > 0 {
			g.edges = unsafe.Slice((*uint32)(unsafe.Pointer(&data[edgeStart])), edgeCount)
		}
	} else {
		g.offsets = make([]uint64, n+1)
		for i := range g.offsets {
			g.offsets[i] = binary.LittleEndian.Uint64(data[headerSize+uint64(i)*offsetSize:])
		}
		g.edges = make([]uint32, edgeCount)
		for i := range g.edges {
			g.edges[i] = binary.LittleEndian.Uint32(data[edgeStart+uint64(i)*edgeSize:])
		}
	}

	if err := checkOffsets(g.offsets, edgeCount); err != nil {
		return nil, err
	}
	return g, nil
}

// checkOffsets enforces the offset-table invariants. It runs in O(N) on
// every load; neighbor ordering is left to Validate.
func checkOffsets(offsets []uint64, edgeCount uint64) error {
	if offsets[0] != 0 {
		return errors.New(errors.ErrCodeCorruptGraph, "first offset is %d, want 0", offsets[0])
	}
	for u := 1; u < len(offsets); u++ {
		if offsets[u] < offsets[u-1] {
			return errors.New(errors.ErrCodeCorruptGraph, "offsets decrease at node %d (%d < %d)", u-1, offsets[u], offsets[u-1])
		}
	}
	if last := offsets[len(offsets)-1]; last != edgeCount {
		return errors.New(errors.ErrCodeCorruptGraph, "last offset is %d, edge block holds %d ids", last, edgeCount)
	}
	return nil
}

// Write encodes g in the graph file layout.
func Write(w io.Writer, g *Graph) error {
	bw := bufio.NewWriterSize(w, 1<<16)
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], g.NodeCount())
	if _, err := bw.Write(buf[:]); err != nil {
		return err
	}
	offsets := g.offsets
	if len(offsets) == 0 {
		offsets = []uint64{0}
	}
	for _, off := range offsets {
		binary.LittleEndian.PutUint64(buf[:], off)
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	for _, v := range g.edges {
		binary.LittleEndian.PutUint32(buf[:4], v)
		if _, err := bw.Write(buf[:4]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes g to path, replacing any existing file.
func WriteFile(path string, g *Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	if err := Write(f, g); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}

var littleEndian = func() bool {
	probe := uint16(1)
	return *(*byte)(unsafe.Pointer(&probe)) == 1
}()

func aligned(data []byte) bool {
	return uintptr(unsafe.Pointer(&data[0]))%offsetSize == 0
}
