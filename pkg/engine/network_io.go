package engine

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/lintang-b-s/pici/pkg/geo"
	"github.com/lintang-b-s/pici/pkg/util"
)

// WriteNetwork writes n as bzip2 compressed text: a "lat lon" centre line, then
// the complete graph block, then the friendly graph block.
func WriteNetwork(filename string, n *Network) (err error) {
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

	w := bufio.NewWriter(bz)
	fmt.Fprintf(w, "%s %s\n", strconv.FormatFloat(n.Centre.Lat, 'f', -1, 64),
		strconv.FormatFloat(n.Centre.Lon, 'f', -1, 64))
	if err := w.Flush(); err != nil {
		bz.Close()
		return err
	}

	for _, g := range []*datastructure.Graph{n.Complete, n.Friendly} {
		if err := g.WriteTo(bz); err != nil {
			bz.Close()
			return err
		}
	}
	return bz.Close()
}

// ReadNetwork reads a network written by WriteNetwork.
func ReadNetwork(filename string) (*Network, error) {
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

	br := bufio.NewReader(bz)
	line, err := util.ReadLine(br)
	if err != nil {
		return nil, fmt.Errorf("reading centre: %w", err)
	}
	tokens := strings.Fields(line)
	if len(tokens) != 2 {
		return nil, fmt.Errorf("invalid centre line: %q", line)
	}
	lat, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return nil, err
	}
	lon, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return nil, err
	}

	complete, err := datastructure.ReadGraphFrom(br)
	if err != nil {
		return nil, fmt.Errorf("reading complete graph: %w", err)
	}
	friendly, err := datastructure.ReadGraphFrom(br)
	if err != nil {
		return nil, fmt.Errorf("reading friendly graph: %w", err)
	}

	return &Network{
		Centre:   geo.NewCoordinate(lat, lon),
		Complete: complete,
		Friendly: friendly,
	}, nil
}
