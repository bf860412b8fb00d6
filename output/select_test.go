package output

import (
	"testing"

	"github.com/RedstoneDaedalus/snekfetch"
)

func TestSelect(t *testing.T) {
	res := &snekfetch.Response{Raw: []byte(`{"user":{"name":"snek","tags":["a","b"],"age":3}}`)}

	testCases := []struct {
		path          string
		expected      string
		shouldBeError bool
	}{
		{path: "user.name", expected: "snek"},
		{path: "user.tags", expected: `["a","b"]`},
		{path: "user.age", expected: "3"},
		{path: "user.tags.#", expected: "2"},
		{path: "user.missing", shouldBeError: true},
	}
	for _, tt := range testCases {
		t.Run(tt.path, func(t *testing.T) {
			actual, err := Select(res, tt.path)
			if (err != nil) != tt.shouldBeError {
				t.Fatalf("unexpected error: shouldBeError=%v, err=%v", tt.shouldBeError, err)
			}
			if actual != tt.expected {
				t.Errorf("unexpected value: expected=%s, actual=%s", tt.expected, actual)
			}
		})
	}
}

func TestSelect_NotJSON(t *testing.T) {
	res := &snekfetch.Response{Raw: []byte("<html></html>")}
	if _, err := Select(res, "a"); err == nil {
		t.Errorf("expected an error for a non-JSON body")
	}
}
