package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/internal/log"
	"github.com/goliatone/go-formstate/pkg/formdef"
	machine "github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/gallery"
	"github.com/goliatone/go-formstate/pkg/rendercount"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// target is a form ready to run or render: a mounted gallery demo or a
// machine built from a definition file.
type target struct {
	example *gallery.Example
	demo    *gallery.Demo
	machine *machine.Machine
}

func (t *target) close() {
	if t.demo != nil {
		t.demo.Close()
	}
}

func isDefinitionFile(arg string) bool {
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// loadTarget resolves arg as a definition file when it has a definition
// extension, otherwise as a gallery route or example id.
func loadTarget(arg, formID string, tracker *rendercount.Tracker) (*target, error) {
	options, err := machineOptions()
	if err != nil {
		return nil, err
	}
	if isDefinitionFile(arg) {
		m, err := formstate.MachineFromFile(arg, formID, options...)
		if err != nil {
			return nil, err
		}
		log.Info(log.CatCLI, "loaded definition", "file", arg, "form", m.Form().ID)
		return &target{machine: m}, nil
	}

	e, err := gallery.Find(arg)
	if err != nil {
		return nil, err
	}
	d, err := gallery.Mount(e, tracker, options...)
	if err != nil {
		return nil, err
	}
	return &target{example: &e, demo: d, machine: d.Machine()}, nil
}

func machineOptions() ([]machine.Option, error) {
	catalog := validation.DefaultCatalog
	if cfg.Messages != "" {
		extra, err := formdef.LoadCatalog(cfg.Messages)
		if err != nil {
			return nil, err
		}
		catalog = catalog.Merge(extra)
	}
	options := []machine.Option{
		machine.WithLogger(machine.LoggerFunc(log.Sink(log.CatForm))),
		machine.WithMessages(catalog, cfg.Locale),
	}
	if cfg.Mode != "" {
		mode, err := machine.ParseMode(cfg.Mode)
		if err != nil {
			return nil, err
		}
		options = append(options, machine.WithMode(mode))
	}
	return options, nil
}

// applyAssignment sets one "path=value" pair and marks the field touched.
// List items may be addressed by position ("tasks.0.title"); the position
// one past the end appends an item.
func applyAssignment(m *machine.Machine, assignment string) error {
	path, raw, ok := strings.Cut(assignment, "=")
	path = strings.TrimSpace(path)
	if !ok || path == "" {
		return fmt.Errorf("invalid --set %q: want path=value", assignment)
	}
	resolved, err := resolvePath(m, path)
	if err != nil {
		return err
	}
	m.SetFieldInput(resolved, raw)
	m.SetFieldTouched(resolved)
	return nil
}

func resolvePath(m *machine.Machine, path string) (string, error) {
	list, index, field, ok := validation.SplitItemPath(path)
	if !ok {
		if _, known := m.Form().Field(path); !known {
			return "", fmt.Errorf("unknown field %q", path)
		}
		return path, nil
	}
	n, err := strconv.Atoi(index)
	if err != nil {
		return path, nil
	}
	ids := m.ItemIDs(list)
	switch {
	case n >= 0 && n < len(ids):
		return machine.ItemPath(list, ids[n], field), nil
	case n == len(ids):
		return machine.ItemPath(list, m.Append(list, nil), field), nil
	default:
		return "", fmt.Errorf("%s: item %d out of range (%d items)", list, n, len(ids))
	}
}
