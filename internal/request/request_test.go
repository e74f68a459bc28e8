package request

import (
	"net/http/httptest"
	"strings"
	"testing"
)

type payload struct {
	Name string `json:"name"`
}

func decode(t *testing.T, body string, strict bool) (payload, error) {
	t.Helper()

	var dst payload
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))

	if strict {
		return dst, DecodeJSONStrict(w, r, &dst)
	}
	return dst, DecodeJSON(w, r, &dst)
}

func TestDecodeJSON_Success(t *testing.T) {
	t.Parallel()

	dst, err := decode(t, `{"name": "alice"}`, false)
	if err != nil {
		t.Fatalf("DecodeJSON error: %v", err)
	}
	if dst.Name != "alice" {
		t.Fatalf("got %q want %q", dst.Name, "alice")
	}
}

func TestDecodeJSON_EmptyBody(t *testing.T) {
	t.Parallel()

	if _, err := decode(t, "", false); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestDecodeJSON_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := decode(t, `{"name": `, false); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestDecodeJSON_WrongType(t *testing.T) {
	t.Parallel()

	_, err := decode(t, `{"name": 1}`, false)
	if err == nil {
		t.Fatal("expected error for wrong field type")
	}
	if !strings.Contains(err.Error(), `"name"`) {
		t.Fatalf("error should reference the field: %v", err)
	}
}

func TestDecodeJSONStrict_UnknownField(t *testing.T) {
	t.Parallel()

	if _, err := decode(t, `{"name": "alice", "extra": true}`, true); err == nil {
		t.Fatal("expected error for unknown field in strict mode")
	}

	// The lenient decoder tolerates the same body.
	if _, err := decode(t, `{"name": "alice", "extra": true}`, false); err != nil {
		t.Fatalf("DecodeJSON error: %v", err)
	}
}

func TestDecodeJSON_MultipleValues(t *testing.T) {
	t.Parallel()

	if _, err := decode(t, `{"name": "a"}{"name": "b"}`, false); err == nil {
		t.Fatal("expected error for multiple JSON values")
	}
}
