package fields

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	sourceJSONDescription = "Extracted from source JSON"
	sourceXMLDescription  = "Extracted from source XML"
)

// FlattenSource turns a raw source document into an ordered list of leaf
// fields. Content starting with '<' is treated as XML, anything else as JSON.
// Flattening never fails: a malformed non-blank document degrades to a single
// sourceSpec placeholder field.
func FlattenSource(raw string) []Field {
	trimmed := strings.TrimSpace(raw)

	var out []Field
	var err error
	if strings.HasPrefix(trimmed, "<") {
		out, err = flattenXML(trimmed)
	} else {
		out, err = flattenJSON(trimmed)
	}

	if err != nil {
		if trimmed == "" {
			return []Field{}
		}
		return []Field{{
			Path:        "sourceSpec",
			Type:        TypeString,
			Description: "Raw source input",
		}}
	}

	if out == nil {
		out = []Field{}
	}
	return out
}

// flattenJSON walks the document token stream so that object keys surface in
// document order; map-based decoding would not preserve it.
func flattenJSON(text string) ([]Field, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var out []Field
	if err := walkJSONValue(dec, "", &out); err != nil {
		return nil, err
	}

	// Trailing garbage after the document is still a parse failure.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected trailing content")
	}

	return out, nil
}

func walkJSONValue(dec *json.Decoder, path string, out *[]Field) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, ok := keyTok.(string)
				if !ok {
					return fmt.Errorf("object key is not a string")
				}
				child := key
				if path != "" {
					child = path + "." + key
				}
				if err := walkJSONValue(dec, child, out); err != nil {
					return err
				}
			}
			_, err = dec.Token() // consume '}'
			return err
		case '[':
			for i := 0; dec.More(); i++ {
				child := fmt.Sprintf("%s[%d]", path, i)
				if err := walkJSONValue(dec, child, out); err != nil {
					return err
				}
			}
			_, err = dec.Token() // consume ']'
			return err
		}
		return fmt.Errorf("unexpected delimiter %v", t)
	case string:
		appendLeaf(out, path, TypeString)
	case json.Number:
		appendLeaf(out, path, TypeNumber)
	case bool:
		appendLeaf(out, path, TypeBoolean)
	case nil:
		appendLeaf(out, path, TypeNull)
	default:
		return fmt.Errorf("unexpected token %v", tok)
	}
	return nil
}

func appendLeaf(out *[]Field, path, fieldType string) {
	if path == "" {
		path = "root"
	}
	*out = append(*out, Field{
		Path:        path,
		Type:        fieldType,
		Description: sourceJSONDescription,
	})
}

type xmlNode struct {
	name     string
	text     strings.Builder
	children []*xmlNode
}

func flattenXML(text string) ([]Field, error) {
	root, err := parseXMLTree(text)
	if err != nil {
		return nil, err
	}

	var out []Field
	walkXMLNode(root, root.name, &out)
	return out, nil
}

// parseXMLTree builds a non-namespace-aware element tree from the document.
func parseXMLTree(text string) (*xmlNode, error) {
	dec := xml.NewDecoder(strings.NewReader(text))

	var root *xmlNode
	var stack []*xmlNode

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{name: t.Name.Local}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced end element %s", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil || len(stack) != 0 {
		return nil, fmt.Errorf("malformed document")
	}
	return root, nil
}

// walkXMLNode emits a field for every element with no element children and
// non-blank text; elements with children only contribute path segments.
func walkXMLNode(node *xmlNode, path string, out *[]Field) {
	if len(node.children) == 0 {
		if strings.TrimSpace(node.text.String()) != "" {
			*out = append(*out, Field{
				Path:        path,
				Type:        TypeString,
				Description: sourceXMLDescription,
			})
		}
		return
	}

	for _, child := range node.children {
		walkXMLNode(child, path+"."+child.name, out)
	}
}
