package postgres

import (
	"reflect"
	"testing"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{query: "beach", want: "%beach%"},
		{query: "100%", want: `%100\%%`},
		{query: "snake_case", want: `%snake\_case%`},
		{query: `back\slash`, want: `%back\\slash%`},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := containsPattern(tt.query); got != tt.want {
				t.Errorf("containsPattern(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestUUIDsOnly(t *testing.T) {
	ids := []string{
		"2f1c3b9e-8a45-4f7e-9d0c-6b2a1e4f5c3d",
		"not-a-uuid",
		"",
		"9b8f6a1c-3e2d-4c5b-8a7f-0e1d2c3b4a59",
	}

	got := uuidsOnly(ids)
	want := []string{ids[0], ids[3]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("uuidsOnly() = %v, want %v", got, want)
	}

	if isUUID("folder-123") {
		t.Error("isUUID accepted a non-UUID id")
	}
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("test_")

	if tables.Folders != "test_folders" || tables.Images != "test_images" || tables.Goose != "test_goose_db_version" {
		t.Errorf("unexpected table names: %+v", tables)
	}
}
