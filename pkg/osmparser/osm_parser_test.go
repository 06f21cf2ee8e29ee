package osmparser

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleOSM = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="56.3300" lon="-2.8000" version="1"/>
  <node id="2" lat="56.3310" lon="-2.7990" version="1"/>
  <node id="3" lat="56.3320" lon="-2.7980" version="1"/>
  <node id="4" lat="57.0000" lon="-2.7980" version="1"/>
  <node id="5" lat="57.1000" lon="-2.7970" version="1"/>
  <way id="10" version="1">
    <nd ref="1"/>
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="cycleway"/>
    <tag k="surface" v="asphalt"/>
  </way>
  <way id="11" version="1">
    <nd ref="3"/>
    <nd ref="4"/>
    <tag k="building" v="yes"/>
  </way>
  <way id="12" version="1">
    <nd ref="4"/>
    <nd ref="5"/>
    <tag k="highway" v="residential"/>
  </way>
</osm>`

func sampleBox() *datastructure.BoundingBox {
	return datastructure.NewBoundingBox(56.3, -2.9, 56.4, -2.7)
}

func TestParseReaderXML(t *testing.T) {
	t.Run("nodes and ways inside the box", func(t *testing.T) {
		p := NewOSMParser()
		data, err := p.ParseReader(context.Background(), strings.NewReader(sampleOSM), FormatXML, sampleBox(), zap.NewNop())
		require.NoError(t, err)

		assert.Len(t, data.Nodes, 3)
		require.Len(t, data.Ways, 2)
		assert.Equal(t, int64(10), data.Ways[0].ID)
		assert.Equal(t, []int64{1, 2, 3}, data.Ways[0].Nodes)
		assert.Equal(t, "cycleway", data.Ways[0].Tags["highway"])
		assert.Equal(t, int64(11), data.Ways[1].ID)

		n, err := data.Node(2)
		require.NoError(t, err)
		assert.Equal(t, 56.331, n.Lat)
		assert.Equal(t, -2.799, n.Lon)

		_, err = data.Node(5)
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("highway only and kept node", func(t *testing.T) {
		p := NewOSMParser()
		p.SetHighwayOnly(true)
		p.KeepNode(5)
		data, err := p.ParseReader(context.Background(), strings.NewReader(sampleOSM), FormatXML, sampleBox(), zap.NewNop())
		require.NoError(t, err)

		require.Len(t, data.Ways, 1)
		assert.Equal(t, int64(10), data.Ways[0].ID)
		_, err = data.Node(5)
		assert.NoError(t, err)
	})
}

func TestParseBzip2File(t *testing.T) {
	var buf bytes.Buffer
	bz, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{})
	require.NoError(t, err)
	_, err = bz.Write([]byte(sampleOSM))
	require.NoError(t, err)
	require.NoError(t, bz.Close())

	mapFile := filepath.Join(t.TempDir(), "sample.osm.bz2")
	require.NoError(t, os.WriteFile(mapFile, buf.Bytes(), 0o644))

	data, err := NewOSMParser().Parse(mapFile, sampleBox(), zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, data.Ways, 2)

	g, err := NewGraphBuilder(data.Nodes, sampleBox(), zap.NewNop()).Build(data.Ways)
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumberOfEdges())
	assert.True(t, g.HasEdge(1, 3))
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatPBF, FormatOf("map.osm.pbf"))
	assert.Equal(t, FormatXML, FormatOf("map.osm"))
	assert.Equal(t, FormatXML, FormatOf("MAP.OSM.BZ2"))
	assert.Equal(t, FormatPBF, FormatOf("map.pbf.bz2"))
}
