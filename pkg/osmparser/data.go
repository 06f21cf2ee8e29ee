package osmparser

import (
	"errors"
	"fmt"
)

var ErrNodeNotFound = errors.New("node not found in map data")

// NodeRef is an openstreetmap node with its position.
type NodeRef struct {
	ID  int64
	Lon float64
	Lat float64
}

func NewNodeRef(id int64, lat, lon float64) NodeRef {
	return NodeRef{ID: id, Lat: lat, Lon: lon}
}

// Way is an openstreetmap way: an ordered node id sequence plus its tags.
type Way struct {
	ID    int64
	Nodes []int64
	Tags  map[string]string
}

func NewWay(id int64, nodes []int64, tags map[string]string) Way {
	if tags == nil {
		tags = make(map[string]string)
	}
	return Way{ID: id, Nodes: nodes, Tags: tags}
}

// MapData is everything read from a map extract.
type MapData struct {
	Nodes map[int64]NodeRef
	Ways  []Way
}

func NewMapData() *MapData {
	return &MapData{
		Nodes: make(map[int64]NodeRef),
		Ways:  make([]Way, 0),
	}
}

func (m *MapData) Node(id int64) (NodeRef, error) {
	n, ok := m.Nodes[id]
	if !ok {
		return NodeRef{}, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	return n, nil
}
