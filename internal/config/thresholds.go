package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ThresholdSeed описывает порог, который сервер задаёт при старте.
type ThresholdSeed struct {
	Key   string `yaml:"key"`
	Value int64  `yaml:"value"`
	Level string `yaml:"level"`
}

type thresholdsFile struct {
	Thresholds []ThresholdSeed `yaml:"thresholds"`
}

// LoadThresholds читает YAML-файл вида
//
//	thresholds:
//	  - key: cpu
//	    value: 90
//	    level: WARNING
//
// Порядок записей сохраняется. Пустой путь означает отсутствие начальных порогов.
func LoadThresholds(path string) ([]ThresholdSeed, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read thresholds file %s: %w", path, err)
	}

	var file thresholdsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse thresholds file %s: %w", path, err)
	}

	for i, seed := range file.Thresholds {
		if seed.Key == "" {
			return nil, fmt.Errorf("thresholds file %s: entry %d has empty key", path, i)
		}
	}
	return file.Thresholds, nil
}
