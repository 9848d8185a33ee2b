// Package flowchart generates, persists and exports node-graph
// flowcharts.
package flowchart

import (
	"encoding/json"
	"errors"
	"time"
)

const Feature = "flowchart"

// ErrUnrecognizedShape means the backend payload did not carry a node
// graph.
var ErrUnrecognizedShape = errors.New("unrecognized flowchart response shape")

// Node is one box in the chart. Children are indexes into the node
// slice.
type Node struct {
	Label    string `json:"label" firestore:"label"`
	Children []int  `json:"children,omitempty" firestore:"children"`
}

// Graph is the node list forming the chart.
type Graph struct {
	Nodes []Node `json:"nodes" firestore:"nodes"`
}

// Chart is the persisted artifact.
type Chart struct {
	Title       string    `json:"title" firestore:"title"`
	Flowchart   Graph     `json:"flowchart" firestore:"flowchart"`
	GeneratedAt time.Time `json:"generatedAt" firestore:"generatedAt"`
}

// ParseResponse decodes the backend payload. A payload without nodes is
// rejected.
func ParseResponse(body []byte) (*Chart, error) {
	var chart Chart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, ErrUnrecognizedShape
	}
	if len(chart.Flowchart.Nodes) == 0 {
		return nil, ErrUnrecognizedShape
	}
	return &chart, nil
}
