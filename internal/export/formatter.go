package export

import "strings"

// PathType selects the notation used for exported target paths.
type PathType string

const (
	PathJSON PathType = "JSON_PATH"
	PathXML  PathType = "XML_PATH"
)

// ResolvePathType normalizes a raw path-type value. An explicit value wins;
// otherwise XML-shaped target types resolve to XML_PATH and everything else
// to JSON_PATH.
func ResolvePathType(raw, targetType string) PathType {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(PathJSON):
		return PathJSON
	case string(PathXML):
		return PathXML
	}

	switch strings.ToUpper(strings.TrimSpace(targetType)) {
	case "XML", "XSD", "XSD_WSDL", "XSD+WSDL":
		return PathXML
	}
	return PathJSON
}

// Format renders a dot-or-slash field path in this path type's notation.
func (p PathType) Format(path string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), "./")
	if trimmed == "" {
		return ""
	}

	if p == PathXML {
		return "/" + strings.ReplaceAll(trimmed, ".", "/")
	}
	return "$." + strings.ReplaceAll(trimmed, "/", ".")
}

// Leaf returns the final segment of a field path in either notation.
func Leaf(path string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), "./")
	if trimmed == "" {
		return ""
	}

	if i := strings.LastIndexAny(trimmed, "./"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
