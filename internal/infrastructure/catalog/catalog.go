// Package catalog reads course catalogs from YAML files.
//
//	courses:
//	  - name: Algorithms
//	    prerequisites: [Data Structures]
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alem-hub/student-records/internal/domain/course"
	"github.com/alem-hub/student-records/internal/domain/shared"
)

// Catalog is the decoded file.
type Catalog struct {
	Courses []course.Entry `yaml:"courses"`
}

// Load reads and validates the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates catalog YAML. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, shared.WrapError("catalog", "Parse", shared.ErrInvalidFormat, "malformed catalog", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every course name and rejects duplicate entries.
func (c *Catalog) Validate() error {
	seen := make(map[string]int, len(c.Courses))
	for i, e := range c.Courses {
		if err := course.ValidateName(e.Name); err != nil {
			return fmt.Errorf("course #%d: %w", i+1, err)
		}
		for _, p := range e.Prerequisites {
			if err := course.ValidateName(p); err != nil {
				return fmt.Errorf("course %q: prerequisite: %w", e.Name, err)
			}
		}
		if prev, dup := seen[e.Name]; dup {
			return shared.NewDomainError("catalog", "Validate", shared.ErrAlreadyExists,
				fmt.Sprintf("course %q listed twice (entries #%d and #%d)", e.Name, prev, i+1))
		}
		seen[e.Name] = i + 1
	}
	return nil
}
