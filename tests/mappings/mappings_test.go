package mappings_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"mapstudio/internal/mappings"
	"mapstudio/internal/suggestions"
	"mapstudio/pkg/pagination"
)

func newSystem() mappings.System {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mappings.New(nil, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func TestNormalizeCodes(t *testing.T) {
	tests := []struct {
		name        string
		projectCode string
		versionCode string
		wantProject string
		wantVersion string
	}{
		{"both blank", "", "", mappings.DefaultProjectCode, mappings.DefaultVersionCode},
		{"whitespace blank", "  ", "\t", mappings.DefaultProjectCode, mappings.DefaultVersionCode},
		{"project only", "ORDERS", "", "ORDERS", mappings.DefaultVersionCode},
		{"both set", "ORDERS", "2.1.0", "ORDERS", "2.1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project, version := mappings.NormalizeCodes(tt.projectCode, tt.versionCode)
			if project != tt.wantProject || version != tt.wantVersion {
				t.Errorf("got %s/%s, want %s/%s", project, version, tt.wantProject, tt.wantVersion)
			}
		})
	}
}

func TestDefaultCodes(t *testing.T) {
	if mappings.DefaultProjectCode != "MAPPER_DEMO_PROJECT" {
		t.Errorf("default project: got %q", mappings.DefaultProjectCode)
	}
	if mappings.DefaultVersionCode != "1.0.0" {
		t.Errorf("default version: got %q", mappings.DefaultVersionCode)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", mappings.ErrNotFound, http.StatusNotFound},
		{"duplicate", mappings.ErrDuplicate, http.StatusConflict},
		{"no selection", mappings.ErrNoSelection, http.StatusBadRequest},
		{"confirmation required", mappings.ErrConfirmationRequired, http.StatusPreconditionRequired},
		{"wrapped not found", fmt.Errorf("find: %w", mappings.ErrNotFound), http.StatusNotFound},
		{"wrapped confirmation required", fmt.Errorf("export: %w", mappings.ErrConfirmationRequired), http.StatusPreconditionRequired},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mappings.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestConfirmRequiresSelection(t *testing.T) {
	system := newSystem()

	_, err := system.Confirm(context.Background(), mappings.ConfirmCommand{
		ProjectCode: "ORDERS",
		VersionCode: "1.0.0",
		Mappings: []suggestions.Suggestion{
			{SourcePath: "a", TargetPath: "b", Selected: false},
		},
	})
	if !errors.Is(err, mappings.ErrNoSelection) {
		t.Errorf("err = %v, want ErrNoSelection", err)
	}
}

func TestConfirmRequiresSelectionEmptySet(t *testing.T) {
	system := newSystem()

	_, err := system.Confirm(context.Background(), mappings.ConfirmCommand{})
	if !errors.Is(err, mappings.ErrNoSelection) {
		t.Errorf("err = %v, want ErrNoSelection", err)
	}
}

func TestPublishSkippedOutsideAwaitingConfirmation(t *testing.T) {
	system := newSystem()

	tests := []string{"", "DRAFT", "PUBLISHED", "awaiting_confirmation"}
	for _, state := range tests {
		t.Run("state "+state, func(t *testing.T) {
			result, err := system.Publish(context.Background(), "ORDERS", "1.0.0", state)
			if err != nil {
				t.Fatalf("Publish() error = %v", err)
			}
			if !result.Skipped {
				t.Fatal("result should be skipped")
			}
			if result.Reason == "" {
				t.Error("skipped result should carry a reason")
			}
			if result.ProjectCode != "ORDERS" || result.VersionCode != "1.0.0" {
				t.Errorf("codes: got %s/%s", result.ProjectCode, result.VersionCode)
			}
		})
	}
}

func TestPublishSkippedNormalizesCodes(t *testing.T) {
	system := newSystem()

	result, err := system.Publish(context.Background(), "", "", "DRAFT")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if result.ProjectCode != mappings.DefaultProjectCode {
		t.Errorf("project: got %q, want default", result.ProjectCode)
	}
	if result.VersionCode != mappings.DefaultVersionCode {
		t.Errorf("version: got %q, want default", result.VersionCode)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("transform_type", "DIRECT")
	values.Set("target_path", "orderId")

	f := mappings.FiltersFromQuery(values)
	if f.TransformType == nil || *f.TransformType != "DIRECT" {
		t.Errorf("transform_type: got %v", f.TransformType)
	}
	if f.TargetPath == nil || *f.TargetPath != "orderId" {
		t.Errorf("target_path: got %v", f.TargetPath)
	}

	empty := mappings.FiltersFromQuery(url.Values{})
	if empty.TransformType != nil || empty.TargetPath != nil {
		t.Error("empty query should produce nil filters")
	}
}
