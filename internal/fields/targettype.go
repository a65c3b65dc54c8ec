package fields

import "strings"

// TargetType identifies the declared format of a target schema.
type TargetType string

// Supported target schema formats.
const (
	TargetJSONSchema TargetType = "JSON_SCHEMA"
	TargetJSON       TargetType = "JSON"
	TargetXML        TargetType = "XML"
	TargetXSD        TargetType = "XSD"
	TargetXSDWSDL    TargetType = "XSD_WSDL"
)

// ResolveTargetType normalizes a raw type name, falling back to content
// sniffing when the name is absent or unrecognized. Sniffing precedence:
// WSDL marker, XSD schema marker, leading '<', JSON Schema markers, JSON.
func ResolveTargetType(raw, schema string) TargetType {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "XSD+WSDL", "XSD_WSDL":
		return TargetXSDWSDL
	case "XSD":
		return TargetXSD
	case "XML":
		return TargetXML
	case "JSON_SCHEMA":
		return TargetJSONSchema
	case "JSON":
		return TargetJSON
	}

	switch {
	case LooksLikeWSDL(schema):
		return TargetXSDWSDL
	case LooksLikeXSD(schema):
		return TargetXSD
	case LooksLikeXML(schema):
		return TargetXML
	case LooksLikeJSONSchema(schema):
		return TargetJSONSchema
	default:
		return TargetJSON
	}
}

// IsXML reports whether the type carries XML content.
func (t TargetType) IsXML() bool {
	return t == TargetXML || t == TargetXSD || t == TargetXSDWSDL
}

// IsJSON reports whether the type carries JSON content.
func (t TargetType) IsJSON() bool {
	return t == TargetJSON || t == TargetJSONSchema
}

// LooksLikeXML reports whether input begins with an XML tag.
func LooksLikeXML(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "<")
}

// LooksLikeXSD reports whether input contains an XSD schema marker.
func LooksLikeXSD(input string) bool {
	text := strings.ToLower(input)
	return strings.Contains(text, "<xsd:schema") || strings.Contains(text, "<xs:schema")
}

// LooksLikeWSDL reports whether input contains a WSDL definitions marker.
func LooksLikeWSDL(input string) bool {
	text := strings.ToLower(input)
	if strings.Contains(text, "<wsdl:definitions") {
		return true
	}
	return strings.Contains(text, "<definitions") && strings.Contains(text, "schemas.xmlsoap.org/wsdl")
}

// LooksLikeJSONSchema reports whether input carries JSON Schema markers.
func LooksLikeJSONSchema(input string) bool {
	text := strings.ToLower(input)
	return strings.Contains(text, `"properties"`) || strings.Contains(text, `"$schema"`)
}
