package formdef

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// LoadCatalog reads a message catalog file: a locale -> key -> template map
// such as
//
//	es:
//	  validation.required: Complete este campo.
//
// Keys are the validation.Message* constants.
func LoadCatalog(path string) (validation.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	return ParseCatalog(data, path)
}

// ParseCatalog decodes a catalog document. JSON is tried first, then YAML.
func ParseCatalog(data []byte, source string) (validation.Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("formdef: file %s is empty", source)
	}

	var (
		catalog validation.Catalog
		err     error
	)
	if trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, &catalog)
	} else {
		err = yaml.Unmarshal(trimmed, &catalog)
	}
	if err != nil {
		return nil, fmt.Errorf("formdef: parse %s: %w", source, err)
	}

	out := make(validation.Catalog, len(catalog))
	for locale, messages := range catalog {
		locale = strings.TrimSpace(locale)
		if locale == "" {
			return nil, fmt.Errorf("formdef: %s: empty locale", source)
		}
		out[locale] = messages
	}
	return out, nil
}
