package fields_test

import (
	"testing"

	"mapstudio/internal/fields"
)

func assertField(t *testing.T, got fields.Field, path, fieldType string) {
	t.Helper()
	if got.Path != path {
		t.Errorf("path: got %q, want %q", got.Path, path)
	}
	if got.Type != fieldType {
		t.Errorf("%s type: got %q, want %q", path, got.Type, fieldType)
	}
}

func TestFlattenSourceJSON(t *testing.T) {
	raw := `{
		"user": {"id": 42, "name": "Ann"},
		"active": true,
		"tags": ["a", "b"],
		"note": null
	}`

	got := fields.FlattenSource(raw)
	if len(got) != 6 {
		t.Fatalf("field count: got %d, want 6: %v", len(got), fields.Paths(got))
	}

	assertField(t, got[0], "user.id", fields.TypeNumber)
	assertField(t, got[1], "user.name", fields.TypeString)
	assertField(t, got[2], "active", fields.TypeBoolean)
	assertField(t, got[3], "tags[0]", fields.TypeString)
	assertField(t, got[4], "tags[1]", fields.TypeString)
	assertField(t, got[5], "note", fields.TypeNull)
}

func TestFlattenSourceJSONOrderStable(t *testing.T) {
	raw := `{"z": 1, "a": 2, "m": {"x": 3, "b": 4}}`

	first := fields.Paths(fields.FlattenSource(raw))
	second := fields.Paths(fields.FlattenSource(raw))

	want := []string{"z", "a", "m.x", "m.b"}
	if len(first) != len(want) {
		t.Fatalf("paths: got %v, want %v", first, want)
	}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("paths[%d]: got %q, want %q", i, first[i], want[i])
		}
		if second[i] != first[i] {
			t.Errorf("second run diverged at %d: %q vs %q", i, second[i], first[i])
		}
	}
}

func TestFlattenSourceScalarJSON(t *testing.T) {
	got := fields.FlattenSource(`"hello"`)
	if len(got) != 1 {
		t.Fatalf("field count: got %d, want 1", len(got))
	}
	assertField(t, got[0], "root", fields.TypeString)
}

func TestFlattenSourceXML(t *testing.T) {
	raw := `<order>
		<id>7</id>
		<customer>
			<name>Ann</name>
			<email>ann@example.com</email>
		</customer>
		<empty></empty>
	</order>`

	got := fields.FlattenSource(raw)
	want := []string{"order.id", "order.customer.name", "order.customer.email"}
	paths := fields.Paths(got)
	if len(paths) != len(want) {
		t.Fatalf("paths: got %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d]: got %q, want %q", i, paths[i], want[i])
		}
	}
	for _, f := range got {
		if f.Type != fields.TypeString {
			t.Errorf("%s type: got %q, want string", f.Path, f.Type)
		}
	}
}

func TestFlattenSourceFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"truncated json", `{"a":`},
		{"trailing garbage", `{"a": 1} extra`},
		{"unbalanced xml", `<a><b></a>`},
		{"multiple xml roots", `<a></a><b></b>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fields.FlattenSource(tt.raw)
			if len(got) != 1 {
				t.Fatalf("field count: got %d, want 1", len(got))
			}
			if got[0].Path != "sourceSpec" {
				t.Errorf("path: got %q, want sourceSpec", got[0].Path)
			}
			if got[0].Type != fields.TypeString {
				t.Errorf("type: got %q, want string", got[0].Type)
			}
		})
	}
}

func TestFlattenSourceBlank(t *testing.T) {
	got := fields.FlattenSource("   ")
	if len(got) != 0 {
		t.Errorf("blank input: got %v, want empty", fields.Paths(got))
	}
}

func TestParseTargetJSONSchema(t *testing.T) {
	schema := `{
		"type": "object",
		"required": ["id"],
		"properties": {
			"id": {"type": "number"},
			"name": {"type": "string"},
			"meta": {}
		}
	}`

	got := fields.ParseTarget(fields.TargetInput{
		Text: schema,
		Type: fields.TargetJSONSchema,
	})
	if len(got) != 3 {
		t.Fatalf("field count: got %d, want 3: %v", len(got), fields.Paths(got))
	}

	assertField(t, got[0], "id", fields.TypeNumber)
	if !got[0].Required {
		t.Error("id should be required")
	}
	assertField(t, got[1], "name", fields.TypeString)
	if got[1].Required {
		t.Error("name should not be required")
	}
	assertField(t, got[2], "meta", fields.TypeString)
}

func TestParseTargetJSONSchemaTopLevelOnly(t *testing.T) {
	schema := `{
		"properties": {
			"order": {
				"type": "object",
				"properties": {
					"nested": {"type": "string"}
				}
			}
		}
	}`

	got := fields.ParseTarget(fields.TargetInput{Text: schema, Type: fields.TargetJSONSchema})
	if len(got) != 1 {
		t.Fatalf("field count: got %d, want 1: %v", len(got), fields.Paths(got))
	}
	assertField(t, got[0], "order", "object")
}

func TestParseTargetMalformed(t *testing.T) {
	got := fields.ParseTarget(fields.TargetInput{Text: `{"properties": `, Type: fields.TargetJSONSchema})
	if len(got) != 0 {
		t.Errorf("malformed schema: got %v, want empty", fields.Paths(got))
	}
}

const orderXSD = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
	<xs:element name="order">
		<xs:complexType>
			<xs:sequence>
				<xs:element name="orderId" type="xs:int"/>
				<xs:element name="note" type="xs:string" minOccurs="0"/>
				<xs:element name="shipped" type="xs:boolean"/>
			</xs:sequence>
			<xs:attribute name="currency" type="xs:string" use="optional"/>
		</xs:complexType>
	</xs:element>
</xs:schema>`

func TestParseTargetXSD(t *testing.T) {
	got := fields.ParseTarget(fields.TargetInput{
		Text:    orderXSD,
		Type:    fields.TargetXSD,
		XSDName: "order.xsd",
	})

	want := []struct {
		path      string
		fieldType string
		required  bool
	}{
		{"orderId", fields.TypeNumber, true},
		{"note", fields.TypeString, false},
		{"shipped", fields.TypeBoolean, true},
		{"@currency", fields.TypeString, false},
	}
	if len(got) != len(want) {
		t.Fatalf("field count: got %d, want %d: %v", len(got), len(want), fields.Paths(got))
	}
	for i, w := range want {
		assertField(t, got[i], w.path, w.fieldType)
		if got[i].Required != w.required {
			t.Errorf("%s required: got %v, want %v", w.path, got[i].Required, w.required)
		}
		if got[i].ArtifactName != "order.xsd" {
			t.Errorf("%s artifact: got %q, want order.xsd", w.path, got[i].ArtifactName)
		}
	}
}

func TestParseTargetXSDWrapperSkipped(t *testing.T) {
	schema := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="CreateOrderRequest" type="tns:CreateOrder"/>
		<xs:element name="amount" type="xs:decimal"/>
	</xs:schema>`

	got := fields.ParseTarget(fields.TargetInput{Text: schema, Type: fields.TargetXSD})
	if len(got) != 1 {
		t.Fatalf("field count: got %d, want 1: %v", len(got), fields.Paths(got))
	}
	assertField(t, got[0], "amount", fields.TypeNumber)
}

func TestParseTargetXSDWSDLMerge(t *testing.T) {
	first := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="id" type="xs:int"/>
	</xs:schema>`
	second := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="id" type="xs:string"/>
		<xs:element name="amount" type="xs:decimal"/>
	</xs:schema>`

	got := fields.ParseTarget(fields.TargetInput{
		Type: fields.TargetXSDWSDL,
		Artifacts: []fields.Artifact{
			{Name: "first.xsd", Content: first},
			{Name: "second.xsd", Content: second},
		},
	})

	if len(got) != 2 {
		t.Fatalf("field count: got %d, want 2: %v", len(got), fields.Paths(got))
	}
	assertField(t, got[0], "id", fields.TypeNumber)
	if got[0].ArtifactName != "first.xsd" {
		t.Errorf("id artifact: got %q, want first.xsd (first occurrence wins)", got[0].ArtifactName)
	}
	assertField(t, got[1], "amount", fields.TypeNumber)
	if got[1].ArtifactName != "second.xsd" {
		t.Errorf("amount artifact: got %q, want second.xsd", got[1].ArtifactName)
	}
}

func TestParseTargetXSDWSDLBodies(t *testing.T) {
	wsdl := `<wsdl:definitions xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/"
		xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<wsdl:types>
			<xs:schema>
				<xs:element name="status" type="xs:string"/>
			</xs:schema>
		</wsdl:types>
	</wsdl:definitions>`

	got := fields.ParseTarget(fields.TargetInput{
		Type:     fields.TargetXSDWSDL,
		XSD:      orderXSD,
		WSDL:     wsdl,
		XSDName:  "order.xsd",
		WSDLName: "service.wsdl",
	})

	paths := fields.Paths(got)
	want := []string{"orderId", "note", "shipped", "@currency", "status"}
	if len(paths) != len(want) {
		t.Fatalf("paths: got %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d]: got %q, want %q", i, paths[i], want[i])
		}
	}
	last := got[len(got)-1]
	if last.ArtifactName != "service.wsdl" || last.ArtifactType != "WSDL" {
		t.Errorf("status artifact: got %s/%s, want service.wsdl/WSDL", last.ArtifactName, last.ArtifactType)
	}
}

func TestResolveTargetType(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		schema string
		want   fields.TargetType
	}{
		{"explicit xsd+wsdl", "XSD+WSDL", "", fields.TargetXSDWSDL},
		{"explicit underscore", "xsd_wsdl", "", fields.TargetXSDWSDL},
		{"explicit xsd", "xsd", "", fields.TargetXSD},
		{"explicit json schema", "JSON_SCHEMA", "", fields.TargetJSONSchema},
		{"sniff wsdl", "", `<wsdl:definitions>`, fields.TargetXSDWSDL},
		{"sniff xsd", "", `<xs:schema>`, fields.TargetXSD},
		{"sniff xml", "", `<root/>`, fields.TargetXML},
		{"sniff json schema", "", `{"$schema": "x", "properties": {}}`, fields.TargetJSONSchema},
		{"sniff json", "", `{"a": 1}`, fields.TargetJSON},
		{"unknown falls through to sniff", "YAML", `<xs:schema>`, fields.TargetXSD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fields.ResolveTargetType(tt.raw, tt.schema); got != tt.want {
				t.Errorf("ResolveTargetType(%q, ...) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestResolveEffectiveSchema(t *testing.T) {
	tests := []struct {
		name       string
		targetType fields.TargetType
		want       string
	}{
		{"json schema prefers json body", fields.TargetJSONSchema, "json-body"},
		{"xsd prefers xsd body", fields.TargetXSD, "xsd-body"},
		{"xsd+wsdl prefers xsd body", fields.TargetXSDWSDL, "xsd-body"},
		{"json falls back to generic", fields.TargetJSON, "generic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fields.ResolveEffectiveSchema(tt.targetType, "generic", "json-body", "xsd-body", "wsdl-body")
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
