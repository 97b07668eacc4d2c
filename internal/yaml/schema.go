package yaml

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	yamlv3 "gopkg.in/yaml.v3"
)

// CurrentSchemaVersion is written into metadata.version of every group document.
const CurrentSchemaVersion = 1.0

// GroupDocument is a group definition consumed by the evaluation harness.
type GroupDocument struct {
	Group               string            `yaml:"group"`
	Task                []string          `yaml:"task"`
	AggregateMetricList []AggregateMetric `yaml:"aggregate_metric_list"`
	Metadata            Metadata          `yaml:"metadata"`
}

type AggregateMetric struct {
	Metric       string `yaml:"metric"`
	Aggregation  string `yaml:"aggregation"`
	WeightBySize bool   `yaml:"weight_by_size"`
}

type Metadata struct {
	Version float64 `yaml:"version"`
}

// StandardMetrics is the aggregation block shared by every generated group.
func StandardMetrics() []AggregateMetric {
	names := []string{"acc", "acc_norm", "perplexity", "f1"}
	out := make([]AggregateMetric, 0, len(names))
	for _, n := range names {
		out = append(out, AggregateMetric{Metric: n, Aggregation: "mean", WeightBySize: false})
	}
	return out
}

// NewGroupDocument builds a document with the standard metric block.
func NewGroupDocument(group string, tasks []string) GroupDocument {
	return GroupDocument{
		Group:               group,
		Task:                tasks,
		AggregateMetricList: StandardMetrics(),
		Metadata:            Metadata{Version: CurrentSchemaVersion},
	}
}

// MarshalGroupDocument renders doc with two-space indentation and a fixed
// key order, so equal documents always produce equal bytes.
func MarshalGroupDocument(doc GroupDocument) ([]byte, error) {
	tasks := &yamlv3.Node{Kind: yamlv3.SequenceNode}
	for _, t := range doc.Task {
		tasks.Content = append(tasks.Content, strNode(t))
	}

	metrics := &yamlv3.Node{Kind: yamlv3.SequenceNode}
	for _, m := range doc.AggregateMetricList {
		metrics.Content = append(metrics.Content, mapNode(
			"metric", strNode(m.Metric),
			"aggregation", strNode(m.Aggregation),
			"weight_by_size", boolNode(m.WeightBySize),
		))
	}

	root := mapNode(
		"group", strNode(doc.Group),
		"task", tasks,
		"aggregate_metric_list", metrics,
		"metadata", mapNode("version", floatNode(doc.Metadata.Version)),
	)

	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yamlv3.Node{Kind: yamlv3.DocumentNode, Content: []*yamlv3.Node{root}}); err != nil {
		return nil, fmt.Errorf("encode group %s: %w", doc.Group, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode group %s: %w", doc.Group, err)
	}
	return buf.Bytes(), nil
}

func strNode(v string) *yamlv3.Node {
	return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: v}
}

func boolNode(v bool) *yamlv3.Node {
	return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func floatNode(v float64) *yamlv3.Node {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!float", Value: s}
}

// mapNode builds a mapping from alternating key and value arguments.
func mapNode(kv ...any) *yamlv3.Node {
	n := &yamlv3.Node{Kind: yamlv3.MappingNode}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Content = append(n.Content, strNode(kv[i].(string)), kv[i+1].(*yamlv3.Node))
	}
	return n
}

// ValidateGroupDocumentFile validates a group document on disk.
func ValidateGroupDocumentFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	return ValidateGroupDocument(content)
}

// ValidateGroupDocument checks that content is a well-formed group document.
func ValidateGroupDocument(content []byte) error {
	var doc GroupDocument
	if err := yamlv3.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	if doc.Group == "" {
		return fmt.Errorf("missing group")
	}
	if len(doc.Task) == 0 {
		return fmt.Errorf("group %s: empty task list", doc.Group)
	}
	seen := make(map[string]bool, len(doc.Task))
	for _, t := range doc.Task {
		if t == "" {
			return fmt.Errorf("group %s: empty task name", doc.Group)
		}
		if seen[t] {
			return fmt.Errorf("group %s: duplicate task %q", doc.Group, t)
		}
		seen[t] = true
	}
	if len(doc.AggregateMetricList) == 0 {
		return fmt.Errorf("group %s: missing aggregate_metric_list", doc.Group)
	}
	for i, m := range doc.AggregateMetricList {
		if m.Metric == "" || m.Aggregation == "" {
			return fmt.Errorf("group %s: aggregate_metric_list[%d] needs metric and aggregation", doc.Group, i)
		}
	}
	if doc.Metadata.Version <= 0 {
		return fmt.Errorf("group %s: invalid metadata.version %v", doc.Group, doc.Metadata.Version)
	}
	if doc.Metadata.Version > CurrentSchemaVersion {
		return fmt.Errorf("group %s: unsupported metadata.version %v (max supported: %v)", doc.Group, doc.Metadata.Version, CurrentSchemaVersion)
	}
	return nil
}
