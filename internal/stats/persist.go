package stats

import (
	"encoding/json"
	"path/filepath"

	"github.com/dariuskan/archivecrawler/pkg/failure"
	"github.com/dariuskan/archivecrawler/pkg/fileutil"
)

// Persist writes a Snapshot of every counter to path atomically, as the
// JSON object of counter name to integer spec.md §6 calls the statistics
// file.
func (s *Stats) Persist(path string) failure.ClassifiedError {
	snapshot := s.Snapshot()

	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	data, jsonErr := json.MarshalIndent(snapshot, "", "  ")
	if jsonErr != nil {
		return &PersistError{Message: jsonErr.Error(), Cause: ErrCauseMarshal}
	}
	if err := fileutil.WriteAtomic(path, data); err != nil {
		return err
	}
	return nil
}
