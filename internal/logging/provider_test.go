package logging

import "testing"

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		input string
		empty bool
	}{
		{"debug", false},
		{" INFO ", false},
		{"warning", false},
		{"", true},
		{"verbose", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := normalizeLevel(tt.input)
			if (got == "") != tt.empty {
				t.Errorf("normalizeLevel(%q) = %q, want empty=%v", tt.input, got, tt.empty)
			}
		})
	}
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestNilProviderReturnsNoOp(t *testing.T) {
	var p *Provider
	l := p.GetLogger("anything")
	if l == nil {
		t.Fatal("expected a logger")
	}
	l.Info("discarded", "key", "value")
}

func TestOrNoOp(t *testing.T) {
	if OrNoOp(nil) == nil {
		t.Error("OrNoOp(nil) returned nil")
	}
	l := NoOp()
	if OrNoOp(l) != l {
		t.Error("OrNoOp should return the given logger")
	}
}
