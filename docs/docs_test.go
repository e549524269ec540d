package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestRegisteredSpecsAreValidJSON(t *testing.T) {
	for _, name := range []string{"map", "archive"} {
		doc, err := swag.ReadDoc(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		var spec struct {
			Info  struct{ Title string }
			Paths map[string]any
		}
		if err := json.Unmarshal([]byte(doc), &spec); err != nil {
			t.Fatalf("%s: invalid json: %v", name, err)
		}
		if spec.Info.Title == "" || len(spec.Paths) == 0 {
			t.Fatalf("%s: empty spec", name)
		}
	}
}
