package export

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/draft"
)

// Document is the plain JSON export of a draft.
type Document struct {
	Title  string              `json:"title"`
	Fields []draft.PlacedField `json:"fields"`
}

// JSON renders fields in display order.
func JSON(title string, fields []draft.PlacedField) ([]byte, error) {
	if fields == nil {
		fields = []draft.PlacedField{}
	}
	raw, err := json.MarshalIndent(Document{Title: title, Fields: fields}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode draft: %w", err)
	}
	return raw, nil
}
