package api

import (
	"mapstudio/internal/config"
	"mapstudio/pkg/openapi"
)

// buildSpec assembles the OpenAPI document for the mapping and studio routes.
func buildSpec(cfg *config.Config) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Suggestion": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"source_path":     {Type: "string"},
				"target_path":     {Type: "string"},
				"confidence":      {Type: "number"},
				"transform_type":  {Type: "string"},
				"reason":          {Type: "string"},
				"origin":          {Type: "string"},
				"selected":        {Type: "boolean"},
				"manual_override": {Type: "boolean"},
				"notes":           {Type: "string"},
			},
			Required: []string{"source_path", "target_path", "confidence"},
		},
		"MappingSet": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"mappings":     {Type: "array", Items: openapi.SchemaRef("Suggestion")},
				"confirmed_by": {Type: "string"},
				"notes":        {Type: "string"},
				"path_type":    {Type: "string"},
			},
		},
		"SaveCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"project_code": {Type: "string"},
				"version_code": {Type: "string"},
				"source_type":  {Type: "string"},
				"mappings":     {Type: "array", Items: openapi.SchemaRef("Suggestion")},
			},
		},
		"ConfirmCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"project_code": {Type: "string"},
				"version_code": {Type: "string"},
				"confirmed_by": {Type: "string"},
				"notes":        {Type: "string"},
				"mappings":     {Type: "array", Items: openapi.SchemaRef("Suggestion")},
			},
		},
		"ExportCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"project_code": {Type: "string"},
				"version_code": {Type: "string"},
				"path_type":    {Type: "string"},
				"target_type":  {Type: "string"},
				"mappings":     {Type: "array", Items: openapi.SchemaRef("Suggestion")},
			},
		},
		"ParseRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"source_spec":   {Type: "string"},
				"target_schema": {Type: "string"},
				"target_xsd":    {Type: "string"},
				"target_wsdl":   {Type: "string"},
				"project_code":  {Type: "string"},
				"version_code":  {Type: "string"},
				"source_type":   {Type: "string"},
				"target_type":   {Type: "string"},
				"path_type":     {Type: "string"},
			},
		},
		"PublishRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"session_state": {Type: "string"},
			},
		},
	})

	projectParam := &openapi.Parameter{
		Name: "project", In: "path", Required: true,
		Schema: &openapi.Schema{Type: "string"},
	}
	versionParam := &openapi.Parameter{
		Name: "version", In: "path", Required: true,
		Schema: &openapi.Schema{Type: "string"},
	}
	conversationParam := &openapi.Parameter{
		Name: "conversationId", In: "path", Required: true,
		Schema: &openapi.Schema{Type: "string"},
	}

	ok := func(desc string) map[int]*openapi.Response {
		return map[int]*openapi.Response{
			200: {Description: desc},
		}
	}

	spec.Paths["/mappings/save"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Save the selected mapping rows",
			Tags:        []string{"mappings"},
			RequestBody: openapi.RequestBodyJSON("SaveCommand", true),
			Responses:   ok("Save result"),
		},
	}
	spec.Paths["/mappings/confirm"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Record a confirmation of the mapping set",
			Tags:        []string{"mappings"},
			RequestBody: openapi.RequestBodyJSON("ConfirmCommand", true),
			Responses: map[int]*openapi.Response{
				201: {Description: "Confirmation recorded"},
				400: {Description: "No mappings selected"},
			},
		},
	}
	spec.Paths["/mappings/export"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Assemble export rows for a confirmed mapping set",
			Tags:        []string{"mappings"},
			RequestBody: openapi.RequestBodyJSON("ExportCommand", true),
			Responses: map[int]*openapi.Response{
				200: {Description: "Export artifact"},
				428: {Description: "Confirmation required"},
			},
		},
	}
	spec.Paths["/mappings/{project}/{version}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a mapping version",
			Tags:       []string{"mappings"},
			Parameters: []*openapi.Parameter{projectParam, versionParam},
			Responses: map[int]*openapi.Response{
				200: {Description: "Mapping version"},
				404: {Description: "Not found"},
			},
		},
	}
	spec.Paths["/mappings/{project}/{version}/fields"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List persisted mapping rows",
			Tags:       []string{"mappings"},
			Parameters: []*openapi.Parameter{projectParam, versionParam},
			Responses:  ok("Paginated mapping rows"),
		},
	}
	spec.Paths["/mappings/{project}/{version}/confirmation"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Latest confirmation audit",
			Tags:       []string{"mappings"},
			Parameters: []*openapi.Parameter{projectParam, versionParam},
			Responses: map[int]*openapi.Response{
				200: {Description: "Confirmation audit"},
				404: {Description: "Not found"},
			},
		},
	}
	spec.Paths["/mappings/{project}/{version}/publish"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Publish a mapping version",
			Tags:        []string{"mappings"},
			Parameters:  []*openapi.Parameter{projectParam, versionParam},
			RequestBody: openapi.RequestBodyJSON("PublishRequest", true),
			Responses:   ok("Publish result, possibly skipped"),
		},
	}

	spec.Paths["/studio/{conversationId}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Conversation session snapshot",
			Tags:       []string{"studio"},
			Parameters: []*openapi.Parameter{conversationParam},
			Responses: map[int]*openapi.Response{
				200: {Description: "Session view"},
				404: {Description: "Unknown conversation"},
			},
		},
	}
	spec.Paths["/studio/{conversationId}/parse"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Parse source and target schemas",
			Tags:        []string{"studio"},
			Parameters:  []*openapi.Parameter{conversationParam},
			RequestBody: openapi.RequestBodyJSON("ParseRequest", false),
			Responses:   ok("Parsed field lists"),
		},
	}
	spec.Paths["/studio/{conversationId}/suggest"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Resolve mapping suggestions",
			Tags:       []string{"studio"},
			Parameters: []*openapi.Parameter{conversationParam},
			Responses:  ok("Suggestions"),
		},
	}
	spec.Paths["/studio/{conversationId}/validate"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Validate the current mapping set",
			Tags:       []string{"studio"},
			Parameters: []*openapi.Parameter{conversationParam},
			Responses:  ok("Validation report"),
		},
	}
	spec.Paths["/studio/{conversationId}/save"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Save through the session",
			Tags:        []string{"studio"},
			Parameters:  []*openapi.Parameter{conversationParam},
			RequestBody: openapi.RequestBodyJSON("MappingSet", false),
			Responses:   ok("Save result"),
		},
	}
	spec.Paths["/studio/{conversationId}/confirm"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Confirm through the session",
			Tags:        []string{"studio"},
			Parameters:  []*openapi.Parameter{conversationParam},
			RequestBody: openapi.RequestBodyJSON("MappingSet", false),
			Responses: map[int]*openapi.Response{
				201: {Description: "Confirmation recorded"},
			},
		},
	}
	spec.Paths["/studio/{conversationId}/export"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Export through the session",
			Tags:        []string{"studio"},
			Parameters:  []*openapi.Parameter{conversationParam},
			RequestBody: openapi.RequestBodyJSON("MappingSet", false),
			Responses:   ok("Export artifact"),
		},
	}
	spec.Paths["/studio/{conversationId}/publish"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Publish gated on the session state",
			Tags:       []string{"studio"},
			Parameters: []*openapi.Parameter{conversationParam},
			Responses:  ok("Publish result, possibly skipped"),
		},
	}

	return openapi.MarshalJSON(spec)
}
