package reaper

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Reaped is one entry of the reaper log.
type Reaped struct {
	Recording string        `json:"recording"`
	Retention time.Duration `json:"retention"`
	ReapedAt  time.Time     `json:"reapedAt"`
}

// garbageCollector removes every expired recording and returns how many were removed. A
// recording that fails to delete is logged and retried on the next run.
func (r *Reaper) garbageCollector() (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cutoff := r.now().Add(-r.retention)
	expired, err := r.recordings.Expired(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired recordings: %w", err)
	}

	removed := 0
	for _, name := range expired {
		if err := r.recordings.Remove(name); err != nil {
			log.Warn().Err(err).Str("recording", name).Msg("failed to remove recording")
			continue
		}
		removed++
		r.write(&Reaped{Recording: name, Retention: r.retention, ReapedAt: r.now()})
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Msg("expired recordings removed")
	}
	return removed, nil
}

// write appends an entry to the reaper log.
func (r *Reaper) write(p *Reaped) {
	file, err := os.OpenFile(r.filePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0640)
	if err != nil {
		log.Error().Err(err).Msg("failed to open reaper log")
		return
	}

	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close reaper log")
		}
	}(file)

	data, err := json.Marshal(p)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal reaper entry")
		return
	}

	if _, err = file.Write(append(data, '\n')); err != nil {
		log.Error().Err(err).Msg("failed to write reaper log")
	}
}
