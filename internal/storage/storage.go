package storage

import (
	"reqtrace/internal/config"
	"reqtrace/internal/domain"
)

// Store persists requirement records, the ignored-test list and check
// reports. Every document is a whole-file read-modify-write; the tool assumes
// single-operator local use, so no locking.
type Store interface {
	LoadRequirements() ([]domain.Requirement, error)
	SaveRequirements(reqs []domain.Requirement) error
	LoadIgnored() ([]domain.IgnoredTest, error)
	AppendIgnored(entry domain.IgnoredTest) error
	SaveReport(report *domain.CheckReport) error
	LoadReport() (*domain.CheckReport, error)
}

// JSONStore stores every document as pretty-printed JSON under the
// configured state directory.
type JSONStore struct {
	cfg *config.Config
}

// NewJSONStore returns a Store backed by the config's state directory.
func NewJSONStore(cfg *config.Config) *JSONStore {
	return &JSONStore{cfg: cfg}
}
