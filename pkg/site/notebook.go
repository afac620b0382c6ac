package site

import (
	"bytes"
	"encoding/json"
	"os"
)

const placeholderCellSource = "_Notebook created; content in progress._\n"

// EnsureRenderableCell guarantees the notebook has at least one markdown or
// code cell, injecting a placeholder at the top otherwise; nbconvert fails
// on notebooks with nothing to render. A notebook that does not parse as
// JSON is left alone for nbconvert to report properly.
func EnsureRenderableCell(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var nb map[string]any
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil
	}

	cells, _ := nb["cells"].([]any)
	for _, c := range cells {
		cell, ok := c.(map[string]any)
		if !ok {
			continue
		}
		switch cell["cell_type"] {
		case "markdown", "code":
			return nil
		}
	}

	stub := map[string]any{
		"cell_type": "markdown",
		"metadata":  map[string]any{},
		"source":    []any{placeholderCellSource},
	}
	nb["cells"] = append([]any{stub}, cells...)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(nb); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
