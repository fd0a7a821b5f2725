package yolo

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const classesComment = "Classes"

// Class is one entry of the "names" block of a dataset manifest
type Class struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Manifest is the dataset.yaml file that YOLO training tools consume.
// We don't split the dataset, so Train and Val point at the same directory.
type Manifest struct {
	Path  string  // Absolute dataset root
	Train string  // Relative to Path
	Val   string  // Relative to Path
	Test  string  // Relative to Path. Empty means no test set.
	Names []Class // Emitted in this order
}

func NewManifest(root string, classes []Class) *Manifest {
	return &Manifest{
		Path:  root,
		Train: "images",
		Val:   "images",
		Names: classes,
	}
}

// Node builds the YAML document. Keys are emitted in a fixed order.
func (m *Manifest) Node() *yaml.Node {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) *yaml.Node {
		k := strNode(key)
		doc.Content = append(doc.Content, k, value)
		return k
	}

	add("path", withComment(strNode(m.Path), "dataset root dir"))
	add("train", withComment(strNode(m.Train), "train images (relative to 'path')"))
	add("val", withComment(strNode(m.Val), "val images (relative to 'path')"))
	test := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}
	if m.Test != "" {
		test = strNode(m.Test)
	}
	add("test", withComment(test, "test images (optional)"))

	names := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range m.Names {
		names.Content = append(names.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(c.ID)},
			strNode(c.Name))
	}
	add("names", names).HeadComment = classesComment

	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{doc}}
}

// Encode writes the manifest, with a blank line separating the paths from the class names
func (m *Manifest) Encode(w io.Writer) error {
	buf := bytes.Buffer{}
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m.Node()); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	// yaml.v3 has no way of asking for an empty line before a comment
	out := bytes.Replace(buf.Bytes(), []byte("\n# "+classesComment+"\n"), []byte("\n\n# "+classesComment+"\n"), 1)
	_, err := w.Write(out)
	return err
}

func (m *Manifest) WriteFile(filename string) error {
	buf := bytes.Buffer{}
	if err := m.Encode(&buf); err != nil {
		return fmt.Errorf("Failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0666); err != nil {
		return fmt.Errorf("Failed to write manifest '%v': %w", filename, err)
	}
	return nil
}

// ReadManifest parses a dataset.yaml file, preserving the order of the names block
func ReadManifest(filename string) (*Manifest, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("Failed to parse manifest '%v': %w", filename, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("Manifest '%v' is not a YAML mapping", filename)
	}
	m := &Manifest{}
	top := doc.Content[0].Content
	for i := 0; i+1 < len(top); i += 2 {
		key, value := top[i].Value, top[i+1]
		switch key {
		case "path":
			m.Path = scalarValue(value)
		case "train":
			m.Train = scalarValue(value)
		case "val":
			m.Val = scalarValue(value)
		case "test":
			m.Test = scalarValue(value)
		case "names":
			if value.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("Manifest '%v': names is not a mapping", filename)
			}
			for j := 0; j+1 < len(value.Content); j += 2 {
				id, err := strconv.Atoi(value.Content[j].Value)
				if err != nil {
					return nil, fmt.Errorf("Manifest '%v': invalid class id '%v'", filename, value.Content[j].Value)
				}
				m.Names = append(m.Names, Class{ID: id, Name: value.Content[j+1].Value})
			}
		}
	}
	return m, nil
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func withComment(n *yaml.Node, comment string) *yaml.Node {
	n.LineComment = comment
	return n
}

func scalarValue(n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		return ""
	}
	return n.Value
}
