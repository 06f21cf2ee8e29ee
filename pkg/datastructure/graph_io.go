package datastructure

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/pici/pkg/util"
)

const maxPreallocLines = 1 << 16

// WriteGraph writes g to a bzip2 compressed text file.
func (g *Graph) WriteGraph(filename string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	if err := g.WriteTo(bz); err != nil {
		bz.Close()
		return err
	}
	return bz.Close()
}

// WriteTo writes g in plain text:
//
//	numVertices numEdges
//	id lat lon       (numVertices lines)
//	from to length   (numEdges lines, node ids)
func (g *Graph) WriteTo(out io.Writer) error {
	w := bufio.NewWriter(out)

	fmt.Fprintf(w, "%d %d\n", len(g.vertices), g.NumberOfEdges())

	for _, v := range g.vertices {
		latF := strconv.FormatFloat(v.lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(v.lon, 'f', -1, 64)
		fmt.Fprintf(w, "%d %s %s\n", v.id, latF, lonF)
	}

	g.ForEdges(func(u, v Index, length float64) {
		lengthF := strconv.FormatFloat(length, 'f', -1, 64)
		fmt.Fprintf(w, "%d %d %s\n", g.VertexID(u), g.VertexID(v), lengthF)
	})

	return w.Flush()
}

// ReadGraph reads a graph written by WriteGraph.
func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	return ReadGraphFrom(bufio.NewReader(bz))
}

// ReadGraphFrom reads one graph block written by WriteTo. the reader is left
// positioned right after the last edge line, so several graphs can share a stream.
func ReadGraphFrom(br *bufio.Reader) (*Graph, error) {
	line, err := util.ReadLine(br)
	if err != nil {
		return nil, err
	}
	tokens := fields(line)
	if len(tokens) != 2 {
		return nil, fmt.Errorf("invalid graph header: %q", line)
	}
	numVertices, err := ParseIndex(tokens[0])
	if err != nil {
		return nil, err
	}
	numEdges, err := ParseIndex(tokens[1])
	if err != nil {
		return nil, err
	}

	// the header counts are not trusted for allocation, slices grow as lines are read.
	vertices := make([]*Vertex, 0, min(int(numVertices), maxPreallocLines))
	for i := 0; i < int(numVertices); i++ {
		vLine, err := util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		v, err := parseVertex(vLine)
		if err != nil {
			return nil, err
		}
		vertices = append(vertices, v)
	}

	edges := make([]Edge, 0, min(int(numEdges), maxPreallocLines))
	for i := 0; i < int(numEdges); i++ {
		eLine, err := util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		e, err := parseEdge(eLine)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}

	return NewGraph(vertices, edges)
}

func parseVertex(line string) (*Vertex, error) {
	tokens := fields(line)
	if len(tokens) != 3 {
		return nil, fmt.Errorf("expected 3 fields, got %d", len(tokens))
	}
	id, err := strconv.ParseInt(tokens[0], 10, 64)
	if err != nil {
		return nil, err
	}
	lat, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return nil, err
	}
	lon, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil {
		return nil, err
	}
	return NewVertex(lat, lon, id), nil
}

func parseEdge(line string) (Edge, error) {
	tokens := fields(line)
	if len(tokens) != 3 {
		return Edge{}, fmt.Errorf("expected 3 fields, got %d", len(tokens))
	}
	from, err := strconv.ParseInt(tokens[0], 10, 64)
	if err != nil {
		return Edge{}, err
	}
	to, err := strconv.ParseInt(tokens[1], 10, 64)
	if err != nil {
		return Edge{}, err
	}
	length, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil {
		return Edge{}, err
	}
	return NewEdge(from, to, length), nil
}

func fields(s string) []string {
	return strings.Fields(s)
}

func ParseIndex(s string) (Index, error) {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if u > math.MaxUint32 {
		return 0, fmt.Errorf("value %s overflows uint32", s)
	}
	return Index(u), nil
}
