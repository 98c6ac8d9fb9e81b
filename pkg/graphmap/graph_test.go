package graphmap

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/gjoin/pkg/errors"
)

// sample is the 4-node graph 0->1, 0->2, 1->2, 2->0 (node 3 isolated).
func sample(t *testing.T) *Graph {
	t.Helper()
	g, err := FromAdjacency([][]uint32{{1, 2}, {2}, {0}, nil})
	if err != nil {
		t.Fatalf("FromAdjacency: %v", err)
	}
	return g
}

// rawImage encodes a graph file byte for byte, without any validation.
func rawImage(n uint64, offsets []uint64, edges []uint32) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, n)
	_ = binary.Write(&buf, binary.LittleEndian, offsets)
	_ = binary.Write(&buf, binary.LittleEndian, edges)
	return buf.Bytes()
}

func writeRaw(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "g.graph")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestFromAdjacency(t *testing.T) {
	g := sample(t)

	if g.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", g.NodeCount())
	}
	if g.EdgeCount() != 4 {
		t.Errorf("EdgeCount() = %d, want 4", g.EdgeCount())
	}
	if got := g.Edges(0); !slices.Equal(got, []uint32{1, 2}) {
		t.Errorf("Edges(0) = %v, want [1 2]", got)
	}
	if g.Degree(3) != 0 {
		t.Errorf("Degree(3) = %d, want 0", g.Degree(3))
	}
	if g.MaxDegree() != 2 {
		t.Errorf("MaxDegree() = %d, want 2", g.MaxDegree())
	}
	if g.Mapped() {
		t.Error("in-memory graph should not report Mapped")
	}
}

func TestFromAdjacencyRejectsBadLists(t *testing.T) {
	tests := []struct {
		name string
		adj  [][]uint32
		code errors.Code
	}{
		{"unsorted", [][]uint32{{2, 1}, nil, nil}, errors.ErrCodeInvalidInput},
		{"duplicate", [][]uint32{{1, 1}, nil}, errors.ErrCodeInvalidInput},
		{"out of range", [][]uint32{{5}}, errors.ErrCodeOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromAdjacency(tt.adj)
			if !errors.Is(err, tt.code) {
				t.Errorf("FromAdjacency() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestNeighborsOutOfRange(t *testing.T) {
	g := sample(t)

	if _, err := g.Neighbors(3); err != nil {
		t.Errorf("Neighbors(3) error = %v, want nil", err)
	}
	_, err := g.Neighbors(4)
	if !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("Neighbors(4) error = %v, want OUT_OF_RANGE", err)
	}

	var empty Graph
	if _, err := empty.Neighbors(0); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("empty graph Neighbors(0) error = %v, want OUT_OF_RANGE", err)
	}
}

func TestWriteOpenRoundTrip(t *testing.T) {
	g := sample(t)
	path := filepath.Join(t.TempDir(), "sample.graph")
	if err := WriteFile(path, g); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer m.Close()

	if m.NodeCount() != g.NodeCount() || m.EdgeCount() != g.EdgeCount() {
		t.Fatalf("got %d nodes / %d edges, want %d / %d", m.NodeCount(), m.EdgeCount(), g.NodeCount(), g.EdgeCount())
	}
	for u := uint32(0); uint64(u) < g.NodeCount(); u++ {
		if !slices.Equal(m.Edges(u), g.Edges(u)) {
			t.Errorf("Edges(%d) = %v, want %v", u, m.Edges(u), g.Edges(u))
		}
	}
	if m.Fingerprint() != g.Fingerprint() {
		t.Error("mapped and in-memory fingerprints differ")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestWriteLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample(t)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := rawImage(4, []uint64{0, 2, 3, 4, 4}, []uint32{1, 2, 2, 0})
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Write produced %x, want %x", buf.Bytes(), want)
	}
}

func TestOpenCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty file", nil},
		{"short header", []byte{1, 0, 0}},
		{"truncated offsets", rawImage(4, []uint64{0, 2}, nil)},
		{"non-monotonic offsets", rawImage(3, []uint64{0, 2, 1, 3}, []uint32{1, 2, 0})},
		{"nonzero first offset", rawImage(2, []uint64{1, 1, 2}, []uint32{1, 0})},
		{"last offset short", rawImage(2, []uint64{0, 1, 1}, []uint32{1, 0})},
		{"last offset past end", rawImage(2, []uint64{0, 1, 3}, []uint32{1, 0})},
		{"ragged edge block", append(rawImage(1, []uint64{0, 0}, nil), 0xff, 0xff)},
		{"huge node count", rawImage(1<<40, []uint64{0}, nil)},
		{"node count 1<<32", rawImage(1<<32, []uint64{0}, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Open(writeRaw(t, tt.data))
			if err == nil {
				g.Close()
				t.Fatal("Open succeeded, want CORRUPT_GRAPH")
			}
			if !errors.Is(err, errors.ErrCodeCorruptGraph) {
				t.Errorf("Open error = %v, want CORRUPT_GRAPH", err)
			}
		})
	}
}

func TestMaxNodesKeepsIDsAddressable(t *testing.T) {
	if MaxNodes > math.MaxUint32 {
		t.Fatalf("MaxNodes = %d: id %d would be valid and id+1 would wrap", MaxNodes, uint32(math.MaxUint32))
	}

	_, err := Decode(rawImage(1<<32, []uint64{0}, nil))
	if !errors.Is(err, errors.ErrCodeCorruptGraph) || !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("Decode with 1<<32 nodes error = %v, want node count rejection", err)
	}
}

func TestLastNodeEdges(t *testing.T) {
	g, err := FromAdjacency([][]uint32{{1}, {0, 2}, {0, 1}})
	if err != nil {
		t.Fatalf("FromAdjacency: %v", err)
	}
	if got := g.Edges(2); !slices.Equal(got, []uint32{0, 1}) {
		t.Errorf("Edges(2) = %v, want [0 1]", got)
	}
	if got := g.Degree(2); got != 2 {
		t.Errorf("Degree(2) = %d, want 2", got)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.graph"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Open error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDecodeUnaligned(t *testing.T) {
	image := rawImage(4, []uint64{0, 2, 3, 4, 4}, []uint32{1, 2, 2, 0})
	shifted := make([]byte, len(image)+1)
	copy(shifted[1:], image)

	g, err := Decode(shifted[1:])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := g.Edges(1); !slices.Equal(got, []uint32{2}) {
		t.Errorf("Edges(1) = %v, want [2]", got)
	}
}

func TestValidateDetectsUnsortedLists(t *testing.T) {
	// Offsets are fine, so Open accepts the file; neighbor order is broken.
	path := writeRaw(t, rawImage(3, []uint64{0, 2, 2, 2}, []uint32{2, 1}))
	g, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer g.Close()

	if err := g.Validate(); !errors.Is(err, errors.ErrCodeCorruptGraph) {
		t.Errorf("Validate() = %v, want CORRUPT_GRAPH", err)
	}
}

func TestValidateDetectsOutOfRangeIDs(t *testing.T) {
	g, err := Decode(rawImage(2, []uint64{0, 1, 1}, []uint32{9}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := g.Validate(); !errors.Is(err, errors.ErrCodeCorruptGraph) {
		t.Errorf("Validate() = %v, want CORRUPT_GRAPH", err)
	}
}

func TestTranspose(t *testing.T) {
	rev := sample(t).Transpose()

	want := [][]uint32{{2}, {0}, {0, 1}, {}}
	for u, list := range want {
		if got := rev.Edges(uint32(u)); !slices.Equal(got, list) {
			t.Errorf("Transpose().Edges(%d) = %v, want %v", u, got, list)
		}
	}
	if err := rev.Validate(); err != nil {
		t.Errorf("transposed graph invalid: %v", err)
	}
}

func TestFingerprintDistinguishesGraphs(t *testing.T) {
	a := sample(t)
	b, _ := FromAdjacency([][]uint32{{1, 2}, {2}, {1}, nil})
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("different graphs should have different fingerprints")
	}
	if a.Fingerprint() != sample(t).Fingerprint() {
		t.Error("fingerprint should be deterministic")
	}
}

func TestConcurrentReads(t *testing.T) {
	g := sample(t)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				for u := uint32(0); u < 4; u++ {
					_ = g.Edges(u)
				}
			}
		}()
	}
	wg.Wait()
}

func TestCloseInMemory(t *testing.T) {
	if err := sample(t).Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}
