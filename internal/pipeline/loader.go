package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

// LoadDataset reads a dataset from a JSON or YAML file, deciding by
// extension and falling back to trying both.
func LoadDataset(path string) (*model.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var ds model.Dataset
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("parse JSON dataset %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("parse YAML dataset %s: %w", path, err)
		}
	default:
		if jsonErr := json.Unmarshal(data, &ds); jsonErr != nil {
			if yamlErr := yaml.Unmarshal(data, &ds); yamlErr != nil {
				return nil, fmt.Errorf("parse dataset %s: %w", path, jsonErr)
			}
		}
	}

	if ds.Source == "" {
		ds.Source = filepath.Base(path)
	}
	return &ds, nil
}
