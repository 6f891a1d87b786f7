package model

import (
	"reflect"
	"testing"
)

func TestFieldFromAny(t *testing.T) {
	tests := map[string]struct {
		input   any
		want    FieldValue
		wantErr bool
	}{
		"string":      {input: "hello", want: String("hello")},
		"bool":        {input: true, want: Bool(true)},
		"int":         {input: 42, want: Int(42)},
		"int64":       {input: int64(7), want: Int(7)},
		"float":       {input: 1.5, want: Float(1.5)},
		"string list": {input: []any{"a", "b"}, want: StringList([]string{"a", "b"})},
		"nil becomes empty string": {
			input: nil,
			want:  String(""),
		},
		"nested map": {
			input: map[string]any{"inner": "v"},
			want:  Map(Fields{"inner": String("v")}),
		},
		"mixed list rejected": {input: []any{"a", 1}, wantErr: true},
		"struct rejected":     {input: struct{}{}, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := FieldFromAny(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("FieldFromAny(%v) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("FieldFromAny(%v) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FieldFromAny(%v) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFieldsInterfaceRoundTrip(t *testing.T) {
	in := map[string]any{
		"description": "does things",
		"enabled":     true,
		"count":       3,
		"tags":        []any{"x", "y"},
	}

	fields, err := FieldsFromAny(in)
	if err != nil {
		t.Fatalf("FieldsFromAny: %v", err)
	}

	out := fields.Interface()
	if out["description"] != "does things" || out["enabled"] != true {
		t.Errorf("scalar round trip failed: %#v", out)
	}
	if got, ok := out["count"].(int64); !ok || got != 3 {
		t.Errorf("int round trip = %#v", out["count"])
	}
	if got, ok := out["tags"].([]string); !ok || !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("list round trip = %#v", out["tags"])
	}
}

func TestFieldsSortedKeys(t *testing.T) {
	fields := Fields{"b": String("2"), "a": String("1"), "c": String("3")}
	want := []string{"a", "b", "c"}
	if got := fields.SortedKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("SortedKeys() = %v, want %v", got, want)
	}
}

func TestFieldsCloneIsIndependent(t *testing.T) {
	orig := Fields{"k": String("v")}
	clone := orig.Clone()
	clone["k"] = String("changed")
	if v, _ := orig["k"].AsString(); v != "v" {
		t.Errorf("clone mutated original: %q", v)
	}
}
