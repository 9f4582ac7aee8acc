package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shuguang-lv/ai-code-review/internal/review"
)

// JSONWriter outputs the full report as indented JSON.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, report *review.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	return nil
}
