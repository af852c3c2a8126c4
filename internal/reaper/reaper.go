package reaper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

//go:generate mockgen -destination=reaper_mock.go -package=reaper -source=reaper.go

const (
	reaperFile = ".reaper.gc.log"
)

type recordings interface {
	Expired(cutoff time.Time) ([]string, error)
	Remove(name string) error
}

// Reaper deletes recordings once they are older than the retention period.
type Reaper struct {
	filePath   string
	recordings recordings

	mutex        sync.Mutex
	reapInterval time.Duration
	retention    time.Duration
	now          func() time.Time

	procCtx context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

type Config struct {
	// Path where the reaper log is kept
	Path       string
	Recordings recordings
	// Interval between two collections
	Interval time.Duration
	// Retention is how long a recording is kept after its last write
	Retention time.Duration
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Path == "" {
		errGrp = append(errGrp, errors.New("directory path cannot be empty"))
	}
	if c.Recordings == nil {
		errGrp = append(errGrp, errors.New("recordings cannot be nil"))
	}
	if c.Interval <= 0 {
		errGrp = append(errGrp, errors.New("interval must be greater than 0"))
	}
	if c.Retention <= 0 {
		errGrp = append(errGrp, errors.New("retention must be greater than 0"))
	}
	return errors.Join(errGrp...)
}

// New creates a new Reaper.
func New(cfg *Config) (*Reaper, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Reaper{
		filePath:     filepath.Join(cfg.Path, reaperFile),
		recordings:   cfg.Recordings,
		reapInterval: cfg.Interval,
		retention:    cfg.Retention,
		now:          time.Now,
		procCtx:      ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}, nil
}

func (r *Reaper) Start() error {
	if err := r.verifyLogFile(); err != nil {
		close(r.done)
		return err
	}

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.reapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.procCtx.Done():
				return
			case <-ticker.C:
				if _, err := r.garbageCollector(); err != nil {
					log.Error().Err(err).Msg("recording garbage collection failed")
				}
			}
		}
	}()
	return nil
}

func (r *Reaper) Stop() error {
	r.cancel()

	select {
	case <-r.done:
	case <-time.After(time.Second):
		return errors.New("reaper did not stop in time")
	}

	// wait for an in-flight collection
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return nil
}

func (r *Reaper) Name() string {
	return "Reaper"
}

// verifyLogFile checks if the log file exists, and creates it if it doesn't.
func (r *Reaper) verifyLogFile() error {
	_, err := os.Stat(r.filePath)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.filePath), 0750); err != nil {
		return err
	}
	file, err := os.Create(r.filePath)
	if err != nil {
		return err
	}
	return file.Close()
}
