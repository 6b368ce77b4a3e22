// Package formdef loads form definitions written as YAML or JSON files. A
// file holds either a single form or a `forms` list; every form is
// normalised before it is stored.
package formdef
