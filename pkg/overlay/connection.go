// Package overlay lays out resolved connection paths around shared graph
// nodes and renders them as a styled, labeled SVG layer composited over an
// externally rendered schematic image, plus a raster debug view of the raw
// graph.
package overlay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/harnesslab/netoverlay/pkg/netgraph"
)

// Endpoint names one end of a requested connection, already resolved to a
// device refdes and connector name by the upstream channel-mapping process.
type Endpoint struct {
	Refdes    string `json:"refdes" yaml:"refdes"`
	Connector string `json:"connector" yaml:"connector"`
}

// Style is the display styling of one connection's overlay line.
type Style struct {
	BaseColor    string `json:"base_color" yaml:"base_color"`
	OutlineColor string `json:"outline_color" yaml:"outline_color"`
}

// Connection is one physical run to draw over the schematic.
type Connection struct {
	Name string   `json:"name" yaml:"name"`
	From Endpoint `json:"from" yaml:"from"`
	To   Endpoint `json:"to" yaml:"to"`

	// Group is an optional bundling key: connections sharing a group count
	// as one component when sizing node bundles.
	Group string `json:"group,omitempty" yaml:"group,omitempty"`

	LabelAtA    string `json:"label_at_a,omitempty" yaml:"label_at_a,omitempty"`
	LabelAtB    string `json:"label_at_b,omitempty" yaml:"label_at_b,omitempty"`
	CenterLabel string `json:"center_label,omitempty" yaml:"center_label,omitempty"`
	Style       Style  `json:"style,omitempty" yaml:"style,omitempty"`
}

// FromNodeID returns the graph node id of the connection's from end.
func (c Connection) FromNodeID() string {
	return netgraph.PinNodeID(c.From.Refdes, c.From.Connector)
}

// ToNodeID returns the graph node id of the connection's to end.
func (c Connection) ToNodeID() string {
	return netgraph.PinNodeID(c.To.Refdes, c.To.Connector)
}

// groupKey is the component-count grouping key: the explicit group when
// present, else the connection is its own component.
func (c Connection) groupKey() string {
	if c.Group != "" {
		return c.Group
	}
	return c.Name
}

// ResolvedPath pairs a connection with the graph hops it traverses.
type ResolvedPath struct {
	Connection Connection
	Hops       []netgraph.Hop
}

// LoadConnections reads a requested-connection list from a JSON or YAML
// file, chosen by extension.
func LoadConnections(path string) ([]Connection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read connections: %w", err)
	}

	var conns []Connection
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &conns); err != nil {
			return nil, fmt.Errorf("decode connections %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &conns); err != nil {
			return nil, fmt.Errorf("decode connections %s: %w", path, err)
		}
	}

	for i, c := range conns {
		if c.Name == "" {
			return nil, fmt.Errorf("connection %d: missing name", i)
		}
		if c.From.Refdes == "" || c.From.Connector == "" || c.To.Refdes == "" || c.To.Connector == "" {
			return nil, fmt.Errorf("connection %q: both endpoints need refdes and connector", c.Name)
		}
	}
	return conns, nil
}
