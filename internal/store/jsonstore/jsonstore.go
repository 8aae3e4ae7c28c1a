package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/idilsaglam/reviews/internal/model"
)

// JSON review files: one object mapping app id to its reviews. Used to seed
// the service and to export what the client fetched. Human-readable on purpose.

// DefaultFile is used when no path is given; it lives in the working directory.
const DefaultFile = "reviews.json"

// Fixture maps app id to reviews.
type Fixture map[string][]model.Review

func dataPath(p string) (string, error) {
	if p != "" {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, DefaultFile), nil
}

// Load reads a fixture. A missing file is an empty fixture.
func Load(path string) (Fixture, error) {
	p, err := dataPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Fixture{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if f == nil {
		f = Fixture{}
	}
	for appID, reviews := range f {
		for i, r := range reviews {
			if err := r.Validate(); err != nil {
				return nil, fmt.Errorf("%s review %d: %w", appID, i, err)
			}
		}
	}
	return f, nil
}

// Save writes the fixture, replacing the file.
func Save(path string, f Fixture) error {
	p, err := dataPath(path)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// AppIDs returns the fixture's app ids, sorted.
func (f Fixture) AppIDs() []string {
	ids := make([]string, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
