package store

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
)

// DataAPI is the slice of the REST client used by DataStore.
type DataAPI interface {
	Export(ctx context.Context, kind models.ExportType, format models.ExportFormat) (models.ExportContent, error)
	Import(ctx context.Context, kind models.ImportType, filename string, file io.Reader) (models.ImportResult, error)
}

// DataSnapshot is the observable state of DataStore.
type DataSnapshot struct {
	Exporting    bool
	Importing    bool
	ImportResult *models.ImportResult
	Error        string
}

// DataStore drives data export and import.
type DataStore struct {
	api    DataAPI
	logger *zap.Logger

	mu        sync.RWMutex
	exporting bool
	importing bool
	result    *models.ImportResult
	err       string
}

// NewDataStore constructs the store.
func NewDataStore(api DataAPI, logger *zap.Logger) *DataStore {
	return &DataStore{api: api, logger: nopIfNil(logger)}
}

// Snapshot returns a copy of the store state.
func (s *DataStore) Snapshot() DataSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DataSnapshot{Exporting: s.exporting, Importing: s.importing, ImportResult: s.result, Error: s.err}
}

// Clear drops the last import result and the error.
func (s *DataStore) Clear() {
	s.mu.Lock()
	s.result = nil
	s.err = ""
	s.mu.Unlock()
}

// ClearError resets the error state.
func (s *DataStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// Export downloads a dataset in the requested format.
func (s *DataStore) Export(ctx context.Context, kind models.ExportType, format models.ExportFormat) (models.ExportContent, error) {
	s.mu.Lock()
	s.exporting = true
	s.err = ""
	s.mu.Unlock()

	content, err := s.api.Export(ctx, kind, format)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.exporting = false
	if err != nil {
		s.err = errorMessage(err, "导出失败")
		return models.ExportContent{}, err
	}
	s.logger.Debug("export finished",
		zap.String("type", string(kind)),
		zap.String("format", string(content.Format)),
		zap.Int("bytes", len(content.Body)),
	)
	return content, nil
}

// Import uploads a file and keeps the result.
func (s *DataStore) Import(ctx context.Context, kind models.ImportType, filename string, file io.Reader) (models.ImportResult, error) {
	s.mu.Lock()
	s.importing = true
	s.err = ""
	s.result = nil
	s.mu.Unlock()

	result, err := s.api.Import(ctx, kind, filename, file)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.importing = false
	if err != nil {
		s.err = errorMessage(err, "导入失败")
		return models.ImportResult{}, err
	}
	s.result = &result
	return result, nil
}
