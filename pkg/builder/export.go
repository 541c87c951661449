package builder

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/formlane/formlane/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidFormFile is reported when an imported document does not parse
// or does not match the export schema. The session is left untouched.
var ErrInvalidFormFile = errors.New("invalid form file")

// ExportDocument is the interchange format for a form definition.
type ExportDocument struct {
	Title      string        `json:"title"`
	Steps      []models.Step `json:"steps"`
	ExportedAt time.Time     `json:"exportedAt"`
}

// Export serializes the session's document for download and returns the
// JSON bytes plus the suggested filename, derived from the title.
func (s *Session) Export() ([]byte, string, error) {
	snapshot := s.Snapshot()

	doc := ExportDocument{
		Title:      snapshot.Title,
		Steps:      snapshot.Steps,
		ExportedAt: time.Now().UTC(),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", err
	}

	return data, exportFilename(snapshot.Title), nil
}

// Import parses an exported document, validates it against the export
// schema and replaces the session's title and steps. Field ids are
// preserved as exported. Any parse or schema failure aborts the import
// with ErrInvalidFormFile and leaves the builder state untouched.
func (s *Session) Import(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(models.ExportSchema()),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil || !result.Valid() {
		return ErrInvalidFormFile
	}

	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ErrInvalidFormFile
	}

	if len(doc.Steps) == 0 {
		doc.Steps = []models.Step{{}}
	}

	for i, step := range doc.Steps {
		if step == nil {
			doc.Steps[i] = models.Step{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.title = doc.Title
	s.steps = doc.Steps
	s.currentStep = 0
	s.selectedFieldID = ""
	s.touch()

	return nil
}

func exportFilename(title string) string {
	name := strings.ToLower(strings.Join(strings.Fields(title), "_"))
	if name == "" {
		name = "untitled"
	}

	return name + "_form.json"
}
