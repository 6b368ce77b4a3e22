package formdef

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goliatone/go-formstate/pkg/model"
)

// LoadOverlay reads a single form used as a presentation overlay. Overlays
// are partial, so they skip the checks LoadFile applies: rules may carry
// only a message and lists need not repeat their item fields.
func LoadOverlay(path string) (model.Decorator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("formdef: file %s is empty", path)
	}
	forms, err := decode(trimmed)
	if err != nil {
		return nil, fmt.Errorf("formdef: parse %s: %w", path, err)
	}
	if len(forms) != 1 {
		return nil, fmt.Errorf("formdef: overlay %s must hold one form, found %d", path, len(forms))
	}
	return model.Overlay(forms[0]), nil
}
