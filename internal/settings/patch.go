package settings

import (
	"slices"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Patch is a partial settings document merged over the file-derived document
// before decoding. Tables merge key by key; any other value replaces.
type Patch struct {
	root *yaml.Node
}

// NewPatch creates an empty patch.
func NewPatch() *Patch {
	return &Patch{root: mappingNode()}
}

// Set stores value at the nested key path, creating intermediate tables.
// Setting the same path twice keeps the later value.
func (p *Patch) Set(path []string, value any) error {
	if len(path) == 0 {
		return errors.New("empty key path")
	}
	node := p.root
	for i, key := range path[:len(path)-1] {
		child := mappingValue(node, key)
		if child == nil {
			child = mappingNode()
			node.Content = append(node.Content, keyNode(key), child)
		} else if child.Kind != yaml.MappingNode {
			return errors.Newf("%v is already set to a value, not a table", path[:i+1])
		}
		node = child
	}

	v, err := encodeNode(value)
	if err != nil {
		return errors.Wrapf(err, "encoding override %v", path)
	}
	last := path[len(path)-1]
	if i := keyIndex(node, last); i >= 0 {
		node.Content[i+1] = v
		return nil
	}
	node.Content = append(node.Content, keyNode(last), v)
	return nil
}

// Empty reports whether the patch sets nothing.
func (p *Patch) Empty() bool {
	return p == nil || len(p.root.Content) == 0
}

// Len returns the number of top-level keys the patch sets.
func (p *Patch) Len() int {
	if p == nil {
		return 0
	}
	return len(p.root.Content) / 2
}

// Validate checks that the patch is a well-formed partial settings document.
func (p *Patch) Validate() error {
	if p.Empty() {
		return nil
	}
	_, err := decodeSettings(p.root)
	return err
}

// Apply merges the patch into doc, which must be a mapping.
func (p *Patch) Apply(doc *yaml.Node) error {
	if p.Empty() {
		return nil
	}
	doc = resolveAlias(doc)
	if doc.Kind != yaml.MappingNode {
		return &SchemaError{Err: errors.Newf("cannot apply overrides to %s", describe(doc))}
	}
	mergeMapping(doc, p.root)
	return nil
}

// mergeMapping merges src into dst in place. Mappings present on both sides
// merge recursively; everything else in src replaces what dst holds.
func mergeMapping(dst, src *yaml.Node) {
	for i := 0; i+1 < len(src.Content); i += 2 {
		key, value := src.Content[i], src.Content[i+1]
		j := keyIndex(dst, key.Value)
		if j < 0 {
			dst.Content = append(dst.Content, cloneNode(key), cloneNode(value))
			continue
		}
		existing := resolveAlias(dst.Content[j+1])
		if existing.Kind == yaml.MappingNode && value.Kind == yaml.MappingNode {
			// Aliased tables are shared with their anchor, so merge into a copy.
			merged := cloneNode(existing)
			mergeMapping(merged, value)
			dst.Content[j+1] = merged
			continue
		}
		dst.Content[j+1] = cloneNode(value)
	}
}

func keyIndex(node *yaml.Node, key string) int {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return i
		}
	}
	return -1
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if i := keyIndex(node, key); i >= 0 {
		return resolveAlias(node.Content[i+1])
	}
	return nil
}

func cloneNode(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Content = slices.Clone(n.Content)
	for i, child := range c.Content {
		c.Content[i] = cloneNode(child)
	}
	return &c
}
