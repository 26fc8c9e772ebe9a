package output

import (
	"strings"
	"testing"
)

func TestValidateFormat(t *testing.T) {
	valid := []string{"json", "table", "text"}
	for _, f := range valid {
		if !ValidateFormat(f) {
			t.Errorf("Format %q should be valid", f)
		}
	}

	invalid := []string{"", "yaml", "JSON", "csv"}
	for _, f := range invalid {
		if ValidateFormat(f) {
			t.Errorf("Format %q should be invalid", f)
		}
	}
}

func TestFormatAsJSON(t *testing.T) {
	data := map[string]interface{}{"username": "lina", "posts": 3}

	got, err := FormatAsJSON(data)
	if err != nil {
		t.Fatalf("FormatAsJSON failed: %v", err)
	}
	if !strings.Contains(got, `"username":"lina"`) {
		t.Errorf("Compact JSON missing field: %s", got)
	}
	if strings.Contains(got, "\n") {
		t.Error("Compact JSON should be single line")
	}
}

func TestFormatAsPrettyJSON(t *testing.T) {
	data := map[string]interface{}{"room_id": "r-1"}

	got, err := FormatAsPrettyJSON(data)
	if err != nil {
		t.Fatalf("FormatAsPrettyJSON failed: %v", err)
	}
	if !strings.Contains(got, "  \"room_id\": \"r-1\"") {
		t.Errorf("Pretty JSON not indented: %s", got)
	}
}
