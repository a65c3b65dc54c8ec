package fields

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"strings"
)

const (
	// DefaultXSDName names an unlabeled XSD artifact.
	DefaultXSDName = "target.xsd"
	// DefaultWSDLName names an unlabeled WSDL artifact.
	DefaultWSDLName = "target.wsdl"
)

// TargetInput carries a target schema and its optional companion artifacts.
// Text holds the effective schema body; the XSD/WSDL fields are consulted for
// the XSD_WSDL merge flow.
type TargetInput struct {
	Text      string
	Type      TargetType
	XSD       string
	WSDL      string
	XSDName   string
	WSDLName  string
	Artifacts []Artifact
}

// ParseTarget turns a target schema into an ordered list of field
// descriptors. XSD_WSDL inputs merge every supplied artifact plus any WSDL
// body, deduplicated by path with the first occurrence winning. XML-shaped
// inputs parse as XSD; everything else parses as JSON Schema. Parsing never
// fails: malformed schemas yield an empty list.
func ParseTarget(in TargetInput) []Field {
	if in.Type == TargetXSDWSDL {
		var merged []Field
		if len(in.Artifacts) > 0 {
			for _, artifact := range in.Artifacts {
				content := strings.TrimSpace(artifact.Content)
				if content == "" {
					continue
				}
				name := strings.TrimSpace(artifact.Name)
				if name == "" {
					name = DefaultXSDName
				}
				merged = append(merged, parseXMLTarget(content, name, "XSD")...)
			}
		} else if strings.TrimSpace(in.XSD) != "" {
			merged = append(merged, parseXMLTarget(in.XSD, in.XSDName, "XSD")...)
		}
		if strings.TrimSpace(in.WSDL) != "" {
			merged = append(merged, parseXMLTarget(in.WSDL, in.WSDLName, "WSDL")...)
		}
		if len(merged) > 0 {
			return dedupeByPath(merged)
		}
	}

	if in.Type.IsXML() || LooksLikeXML(in.Text) {
		return parseXMLTarget(in.Text, in.XSDName, "XSD")
	}

	return parseJSONSchemaTarget(in.Text)
}

// ResolveEffectiveSchema picks the schema body matching the resolved type,
// preferring the format-specific field over the generic schema text.
func ResolveEffectiveSchema(t TargetType, schema, schemaJSON, schemaXSD, schemaWSDL string) string {
	switch t {
	case TargetJSONSchema:
		if strings.TrimSpace(schemaJSON) != "" {
			return schemaJSON
		}
	case TargetXSD:
		if strings.TrimSpace(schemaXSD) != "" {
			return schemaXSD
		}
	case TargetXSDWSDL:
		if strings.TrimSpace(schemaXSD) != "" {
			return schemaXSD
		}
		if strings.TrimSpace(schemaWSDL) != "" {
			return schemaWSDL
		}
	}
	return schema
}

// TargetSchemaPayload serializes the target schema for version snapshots.
// JSON Schema bodies embed as parsed JSON; XML bodies embed as text.
func TargetSchemaPayload(t TargetType, schema, schemaXSD, schemaWSDL string) string {
	payload := make(map[string]any)
	payload["target_type"] = string(t)

	switch t {
	case TargetJSONSchema:
		var parsed any
		if err := json.Unmarshal([]byte(schema), &parsed); err != nil {
			payload["schema_text"] = schema
		} else {
			payload["schema"] = parsed
		}
	case TargetXSDWSDL:
		payload["xsd_schema_text"] = schemaXSD
		payload["wsdl_text"] = schemaWSDL
		payload["schema_text"] = schema
	default:
		payload["schema_text"] = schema
	}

	data, err := json.Marshal(payload)
	if err != nil {
		fallback, _ := json.Marshal(map[string]string{
			"target_type": string(t),
			"schema_text": schema,
		})
		return string(fallback)
	}
	return string(data)
}

type jsonProperty struct {
	path     string
	propType string
}

// parseJSONSchemaTarget reads only the schema's top-level properties map;
// nested objects and arrays are not recursed into. Property order follows the
// document. Required flags come from the top-level required array.
func parseJSONSchemaTarget(text string) []Field {
	dec := json.NewDecoder(strings.NewReader(text))

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return []Field{}
	}

	var props []jsonProperty
	required := make(map[string]bool)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return []Field{}
		}
		key, ok := keyTok.(string)
		if !ok {
			return []Field{}
		}

		switch key {
		case "required":
			var names []string
			if err := dec.Decode(&names); err != nil {
				return []Field{}
			}
			for _, name := range names {
				required[name] = true
			}
		case "properties":
			props = decodeProperties(dec)
			if props == nil {
				return []Field{}
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return []Field{}
			}
		}
	}

	out := make([]Field, 0, len(props))
	for _, p := range props {
		out = append(out, Field{
			Path:     p.path,
			Type:     p.propType,
			Required: required[p.path],
		})
	}
	return out
}

func decodeProperties(dec *json.Decoder) []jsonProperty {
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}

	props := make([]jsonProperty, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil
		}

		var attrs struct {
			Type string `json:"type"`
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil
		}
		propType := TypeString
		if err := json.Unmarshal(raw, &attrs); err == nil && attrs.Type != "" {
			propType = attrs.Type
		}

		props = append(props, jsonProperty{path: key, propType: propType})
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil
	}
	return props
}

type schemaNode struct {
	local    string
	attrs    map[string]string
	children []*schemaNode
}

// parseXMLTarget scans an XSD or WSDL document for element and attribute
// declarations at any depth, in document order. Attribute paths carry an '@'
// prefix. Wrapper elements (operation envelopes) are skipped but their
// descendants still surface. Duplicate paths keep the first occurrence.
func parseXMLTarget(text, artifactName, artifactType string) []Field {
	if strings.TrimSpace(text) == "" {
		return []Field{}
	}

	root, err := parseSchemaTree(text)
	if err != nil {
		return []Field{}
	}

	if strings.TrimSpace(artifactName) == "" {
		artifactName = DefaultXSDName
	}
	if strings.TrimSpace(artifactType) == "" {
		artifactType = "XSD"
	}

	out := make([]Field, 0)
	seen := make(map[string]bool)
	scanDeclarations(root, artifactName, artifactType, seen, &out)
	return out
}

func parseSchemaTree(text string) (*schemaNode, error) {
	dec := xml.NewDecoder(strings.NewReader(text))

	root := &schemaNode{local: "#document"}
	stack := []*schemaNode{root}

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
			attrs := make(map[string]string, len(t.Attr))
			for _, attr := range t.Attr {
				attrs[attr.Name.Local] = attr.Value
			}
			node := &schemaNode{local: t.Name.Local, attrs: attrs}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return root, nil
}

func scanDeclarations(node *schemaNode, artifactName, artifactType string, seen map[string]bool, out *[]Field) {
	local := strings.ToLower(node.local)
	if local == "element" || local == "attribute" {
		name := node.attrs["name"]
		rawType := node.attrs["type"]

		switch {
		case strings.TrimSpace(name) == "":
			// Anonymous declarations (refs, inline restrictions) carry no path.
		case local == "element" && skipWrapperElement(name, rawType, node):
			// Envelope node; descendants are still scanned below.
		default:
			path := name
			if local == "attribute" {
				path = "@" + name
			}
			if !seen[path] {
				seen[path] = true
				*out = append(*out, Field{
					Path:         path,
					Type:         normalizeXSDType(rawType),
					Required:     declarationRequired(node),
					ArtifactName: artifactName,
					ArtifactType: artifactType,
				})
			}
		}
	}

	for _, child := range node.children {
		scanDeclarations(child, artifactName, artifactType, seen, out)
	}
}

// skipWrapperElement identifies operation envelope elements: names ending in
// Request/Response, declared types in a non-XSD namespace, or an inline
// complexType/sequence child.
func skipWrapperElement(name, rawType string, node *schemaNode) bool {
	lowered := strings.ToLower(name)
	if strings.HasSuffix(lowered, "request") || strings.HasSuffix(lowered, "response") {
		return true
	}

	declared := strings.ToLower(strings.TrimSpace(rawType))
	if declared != "" && strings.Contains(declared, ":") &&
		!strings.HasPrefix(declared, "xsd:") && !strings.HasPrefix(declared, "xs:") {
		return true
	}

	for _, child := range node.children {
		local := strings.ToLower(child.local)
		if local == "complextype" || local == "sequence" {
			return true
		}
	}
	return false
}

func declarationRequired(node *schemaNode) bool {
	if node.attrs["minOccurs"] == "0" {
		return false
	}
	if strings.EqualFold(node.attrs["use"], "optional") {
		return false
	}
	return true
}

// normalizeXSDType maps primitive XSD types onto the semantic type set.
func normalizeXSDType(rawType string) string {
	t := strings.ToLower(strings.TrimSpace(rawType))
	if t == "" {
		return TypeString
	}
	if idx := strings.Index(t, ":"); idx >= 0 {
		t = t[idx+1:]
	}

	switch t {
	case "int", "integer", "long", "short", "decimal", "float", "double":
		return TypeNumber
	case "boolean":
		return TypeBoolean
	case "date", "datetime", "time":
		return TypeString
	default:
		return TypeString
	}
}

func dedupeByPath(rows []Field) []Field {
	out := make([]Field, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.Path == "" || seen[row.Path] {
			continue
		}
		seen[row.Path] = true
		out = append(out, row)
	}
	return out
}
