package schema

import (
	"testing"
)

func TestMapType(t *testing.T) {
	tests := []struct {
		relType  string
		expected string
		known    bool
	}{
		{"int", "int", true},
		{"INTEGER", "int", true},
		{"bigint", "bigint", true},
		{"varchar(255)", "text", true},
		{"VARCHAR(100)", "text", true},
		{"decimal(10,2)", "decimal", true},
		{"datetime", "timestamp", true},
		{"bool", "boolean", true},
		{"uuid", "uuid", true},
		{"geometry", "text", false},
		{"varchr", "text", false},
	}

	for _, tt := range tests {
		t.Run(tt.relType, func(t *testing.T) {
			mapped, known := MapType(tt.relType)
			if mapped != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, mapped)
			}
			if known != tt.known {
				t.Errorf("expected known=%v, got %v", tt.known, known)
			}
		})
	}
}

func TestSuggestType(t *testing.T) {
	tests := []struct {
		relType  string
		expected string
	}{
		{"varchr", "varchar"},
		{"intger", "integer"},
		{"timestmp", "timestamp"},
		// bool 和 float 编辑距离并列，取字典序较小者
		{"boat", "bool"},
		{"geometry", ""},
	}

	for _, tt := range tests {
		t.Run(tt.relType, func(t *testing.T) {
			for i := 0; i < 10; i++ {
				if got := SuggestType(tt.relType); got != tt.expected {
					t.Errorf("expected %q, got %q", tt.expected, got)
				}
			}
		})
	}
}

func TestDecimalScale(t *testing.T) {
	tests := []struct {
		relType string
		scale   int
		ok      bool
	}{
		{"decimal(10,2)", 2, true},
		{"decimal(18, 4)", 4, true},
		{"decimal", 0, false},
		{"float", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.relType, func(t *testing.T) {
			scale, ok := DecimalScale(tt.relType)
			if ok != tt.ok || scale != tt.scale {
				t.Errorf("expected (%d, %v), got (%d, %v)", tt.scale, tt.ok, scale, ok)
			}
		})
	}
}

func TestProblematicColumns(t *testing.T) {
	table := &Table{
		Name: "products",
		Columns: []Column{
			{Name: "id", Type: "int", MappedType: "int"},
			{Name: "price", Type: "decimal(10,2)", MappedType: "decimal"},
			{Name: "weight", Type: "float", MappedType: "float"},
			{Name: "name", Type: "varchar(100)", MappedType: "text"},
		},
	}

	issues := ProblematicColumns(table)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}
	if issues[0].Column != "price" || issues[1].Column != "weight" {
		t.Errorf("unexpected columns: %s, %s", issues[0].Column, issues[1].Column)
	}
}

func TestIsIdentifierLike(t *testing.T) {
	tests := []struct {
		col      Column
		expected bool
	}{
		{Column{Name: "id", MappedType: "int"}, true},
		{Column{Name: "user_id", MappedType: "int"}, true},
		{Column{Name: "token", MappedType: "uuid"}, true},
		{Column{Name: "email", MappedType: "text"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.col.Name, func(t *testing.T) {
			if got := IsIdentifierLike(&tt.col); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
