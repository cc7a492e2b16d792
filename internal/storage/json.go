package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"reqtrace/internal/domain"
)

// LoadRequirements reads the requirement records file. A missing file is an
// empty project, not an error.
func (s *JSONStore) LoadRequirements() ([]domain.Requirement, error) {
	data, err := os.ReadFile(s.cfg.GetRequirementsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read requirements file: %w", err)
	}
	var reqs []domain.Requirement
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, fmt.Errorf("parse requirements: %w", err)
	}
	return reqs, nil
}

// SaveRequirements replaces the requirement records file wholesale.
func (s *JSONStore) SaveRequirements(reqs []domain.Requirement) error {
	return s.writeJSON(s.cfg.GetRequirementsPath(), reqs)
}

// LoadIgnored reads the ignored-test list. A missing file is an empty list.
func (s *JSONStore) LoadIgnored() ([]domain.IgnoredTest, error) {
	data, err := os.ReadFile(s.cfg.GetIgnoredPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ignored-tests file: %w", err)
	}
	var ignored []domain.IgnoredTest
	if err := json.Unmarshal(data, &ignored); err != nil {
		return nil, fmt.Errorf("parse ignored tests: %w", err)
	}
	return ignored, nil
}

// AppendIgnored adds one entry to the ignored-test list, skipping keys that
// are already present.
func (s *JSONStore) AppendIgnored(entry domain.IgnoredTest) error {
	ignored, err := s.LoadIgnored()
	if err != nil {
		return err
	}
	for _, existing := range ignored {
		if existing.Key() == entry.Key() {
			return nil
		}
	}
	ignored = append(ignored, entry)
	return s.writeJSON(s.cfg.GetIgnoredPath(), ignored)
}

// SaveReport writes the check report so the viewer can open without
// rescanning.
func (s *JSONStore) SaveReport(report *domain.CheckReport) error {
	return s.writeJSON(s.cfg.GetReportPath(), report)
}

// LoadReport reads the last check report.
func (s *JSONStore) LoadReport() (*domain.CheckReport, error) {
	data, err := os.ReadFile(s.cfg.GetReportPath())
	if err != nil {
		return nil, fmt.Errorf("read check report (run \"reqtrace check\" first): %w", err)
	}
	var report domain.CheckReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse check report: %w", err)
	}
	return &report, nil
}

func (s *JSONStore) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
