package diag

import "testing"

func TestCode_String(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{E_LIMIT_REACHED, "E_LIMIT_REACHED"},
		{E_INTERNAL, "E_INTERNAL"},
		{E_UNKNOWN_OUTPUT_LANGUAGE, "E_UNKNOWN_OUTPUT_LANGUAGE"},
		{E_EMPTY_UNION, "E_EMPTY_UNION"},
		{E_FORWARDER_SURVIVED, "E_FORWARDER_SURVIVED"},
		{E_MALFORMED_SAMPLE, "E_MALFORMED_SAMPLE"},
		{E_RENDER_FAILED, "E_RENDER_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.code.String(); got != tt.want {
				t.Errorf("Code.String() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestCode_Category(t *testing.T) {
	tests := []struct {
		code Code
		want CodeCategory
	}{
		{E_LIMIT_REACHED, CategorySentinel},
		{E_UNKNOWN_OUTPUT_LANGUAGE, CategoryConfiguration},
		{E_EMPTY_UNION, CategoryStructural},
		{E_FIXED_POINT_DID_NOT_CONVERGE, CategoryStructural},
		{E_MALFORMED_SCHEMA, CategoryInput},
		{E_RENDER_FAILED, CategoryRender},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := tt.code.Category(); got != tt.want {
				t.Errorf("Code.Category() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestCode_IsZero(t *testing.T) {
	var zero Code
	if !zero.IsZero() {
		t.Error("zero-value Code should report IsZero() == true")
	}
	if E_INTERNAL.IsZero() {
		t.Error("E_INTERNAL should not report IsZero()")
	}
}

func TestCodeCategory_String(t *testing.T) {
	tests := []struct {
		cat  CodeCategory
		want string
	}{
		{CategorySentinel, "sentinel"},
		{CategoryConfiguration, "configuration"},
		{CategoryStructural, "structural"},
		{CategoryInput, "input"},
		{CategoryRender, "render"},
		{CodeCategory(255), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("CodeCategory(%d).String() = %q; want %q", tt.cat, got, tt.want)
		}
	}
}

func TestAllCodes_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range AllCodes() {
		if seen[c.String()] {
			t.Errorf("duplicate code value %q", c.String())
		}
		seen[c.String()] = true
	}
}

func TestCodesByCategory(t *testing.T) {
	structural := CodesByCategory(CategoryStructural)
	if len(structural) == 0 {
		t.Fatal("expected at least one structural code")
	}
	for _, c := range structural {
		if c.Category() != CategoryStructural {
			t.Errorf("CodesByCategory(CategoryStructural) returned %s with category %v", c, c.Category())
		}
	}
}
