package session

// Context keys used by the studio workflow. Raw schema text and settings are
// written by the caller; parsed field lists, suggestions, and step statuses
// are written back by the studio operations.
const (
	KeySourceSpec       = "sourceSpec"
	KeyTargetSchema     = "targetSchema"
	KeyTargetSchemaJSON = "targetSchemaJson"
	KeyTargetXSD        = "targetXsd"
	KeyTargetWSDL       = "targetWsdl"
	KeyTargetXSDName    = "targetXsdName"
	KeyTargetWSDLName   = "targetWsdlName"
	KeyTargetArtifacts  = "targetXsdList"
	KeyProjectCode      = "projectCode"
	KeyVersionCode      = "mappingVersion"
	KeySourceType       = "sourceType"
	KeyTargetType       = "targetType"
	KeyPathType         = "pathType"
	KeySourceFields     = "sourceFields"
	KeyTargetFields     = "targetFields"
	KeyMappings         = "mappings"
	KeyParseStatus      = "parseStatus"
	KeySuggestStatus    = "suggestStatus"
	KeyPublishStatus    = "publishStatus"
)

// Step status values recorded under the status keys.
const (
	StatusDone    = "DONE"
	StatusSkipped = "SKIPPED"
)
