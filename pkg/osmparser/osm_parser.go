package osmparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"
)

type Format int

const (
	FormatPBF Format = iota
	FormatXML
)

// FormatOf picks the input format from the file name: .osm / .xml are xml,
// everything else is pbf. a trailing .bz2 is ignored.
func FormatOf(mapFile string) Format {
	name := strings.TrimSuffix(strings.ToLower(mapFile), ".bz2")
	switch filepath.Ext(name) {
	case ".osm", ".xml":
		return FormatXML
	default:
		return FormatPBF
	}
}

type scanner interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Close() error
}

type OsmParser struct {
	highwayOnly bool
	keepNodes   map[int64]struct{}
}

func NewOSMParser() *OsmParser {
	return &OsmParser{
		keepNodes: make(map[int64]struct{}),
	}
}

// SetHighwayOnly drops ways without a highway tag while scanning.
func (p *OsmParser) SetHighwayOnly(highwayOnly bool) {
	p.highwayOnly = highwayOnly
}

// KeepNode keeps the node even when it lies outside the bounding box, e.g. the
// town centre node.
func (p *OsmParser) KeepNode(id int64) {
	p.keepNodes[id] = struct{}{}
}

// Parse reads a .osm.pbf, .osm or .osm.bz2 extract. only nodes inside bbox (and
// the nodes passed to KeepNode) are kept; ways are kept when at least one of
// their nodes is inside bbox.
func (p *OsmParser) Parse(mapFile string, bbox *datastructure.BoundingBox, logger *zap.Logger) (*MapData, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(mapFile), ".bz2") {
		bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
		if err != nil {
			return nil, err
		}
		defer bz.Close()
		r = bz
	}

	return p.ParseReader(context.Background(), r, FormatOf(mapFile), bbox, logger)
}

func (p *OsmParser) ParseReader(ctx context.Context, r io.Reader, format Format, bbox *datastructure.BoundingBox,
	logger *zap.Logger) (*MapData, error) {
	var sc scanner
	switch format {
	case FormatXML:
		sc = osmxml.New(ctx, r)
	default:
		// must not be parallel
		sc = osmpbf.New(ctx, r, 1)
	}
	defer sc.Close()

	data := NewMapData()
	countNodes, countWays := 0, 0
	for sc.Scan() {
		o := sc.Object()

		switch o.ObjectID().Type() {
		case osm.TypeNode:
			{
				node := o.(*osm.Node)
				if (countNodes+1)%500000 == 0 {
					logger.Sugar().Infof("scanning openstreetmap nodes: %d...", countNodes+1)
				}
				countNodes++

				id := int64(node.ID)
				_, keep := p.keepNodes[id]
				if !keep && !bbox.Contains(node.Lat, node.Lon) {
					continue
				}
				data.Nodes[id] = NewNodeRef(id, node.Lat, node.Lon)
			}
		case osm.TypeWay:
			{
				way := o.(*osm.Way)
				if p.highwayOnly && way.Tags.Find("highway") == "" {
					continue
				}
				if (countWays+1)%50000 == 0 {
					logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
				}
				countWays++
				data.Ways = append(data.Ways, WayFromOSM(way))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning openstreetmap data: %w", err)
	}

	data.Ways = dropWaysOutside(data.Ways, data.Nodes, bbox)

	logger.Info("openstreetmap data loaded",
		zap.Int("nodes", len(data.Nodes)),
		zap.Int("ways", len(data.Ways)))
	return data, nil
}

// WayFromOSM copies the node ids and tags of an osm way.
func WayFromOSM(way *osm.Way) Way {
	nodes := make([]int64, 0, len(way.Nodes))
	for _, n := range way.Nodes {
		nodes = append(nodes, int64(n.ID))
	}
	return NewWay(int64(way.ID), nodes, way.Tags.Map())
}

func dropWaysOutside(ways []Way, nodes map[int64]NodeRef, bbox *datastructure.BoundingBox) []Way {
	kept := ways[:0]
	for _, w := range ways {
		for _, id := range w.Nodes {
			n, ok := nodes[id]
			if ok && bbox.Contains(n.Lat, n.Lon) {
				kept = append(kept, w)
				break
			}
		}
	}
	return kept
}
