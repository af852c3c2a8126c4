package recorder

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/litetable/litetable-readrows/internal/chunk"
	"github.com/litetable/litetable-readrows/internal/readrows"
)

const (
	defaultRecordingDirectory = "recordings"
	recordingExtension        = ".jsonl"
)

// Entry is one recorded chunk.
type Entry struct {
	Chunk     *chunk.Chunk `json:"chunk"`
	Timestamp time.Time    `json:"timestamp"`
}

// Recorder appends the chunks of a scan to a recording file, one JSON entry per line, so
// the exact chunk sequence can be replayed later.
type Recorder struct {
	mu   sync.Mutex
	file *os.File
	path string
}

type Config struct {
	// Path where the recordings directory will be created
	Path string
	// Name of the recording, without extension
	Name string
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Path == "" {
		errGrp = append(errGrp, errors.New("path cannot be empty"))
	}
	if c.Name == "" {
		errGrp = append(errGrp, errors.New("recording name cannot be empty"))
	}
	if strings.ContainsAny(c.Name, `/\`) {
		errGrp = append(errGrp, fmt.Errorf("invalid recording name: %s", c.Name))
	}
	return errors.Join(errGrp...)
}

// New opens (or creates) the recording for appending.
func New(cfg *Config) (*Recorder, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	recordingPath := RecordingPath(cfg.Path, cfg.Name)
	if err := os.MkdirAll(filepath.Dir(recordingPath), 0750); err != nil {
		return nil, errors.New("failed to create recordings directory: " + err.Error())
	}

	file, err := os.OpenFile(recordingPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0640)
	if err != nil {
		return nil, errors.New("failed to open recording: " + err.Error())
	}

	return &Recorder{
		file: file,
		path: recordingPath,
	}, nil
}

// RecordingPath is the file a recording called name is stored in under dir.
func RecordingPath(dir, name string) string {
	return filepath.Join(dir, defaultRecordingDirectory, name+recordingExtension)
}

// Path is the location of the recording file.
func (r *Recorder) Path() string {
	return r.path
}

// Record appends one chunk to the recording.
func (r *Recorder) Record(c *chunk.Chunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	jsonData, err := json.Marshal(&Entry{
		Chunk:     c,
		Timestamp: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	if _, err = r.file.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write to recording: %w", err)
	}

	return nil
}

// Close flushes and closes the recording file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync recording: %w", err)
	}
	return r.file.Close()
}

// Wrap returns a source that records every chunk it passes through.
func (r *Recorder) Wrap(src readrows.Source) readrows.Source {
	return &teeSource{src: src, rec: r}
}

type teeSource struct {
	src readrows.Source
	rec *Recorder
}

func (t *teeSource) Recv() (*chunk.Chunk, error) {
	c, err := t.src.Recv()
	if err != nil {
		return nil, err
	}
	if err := t.rec.Record(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Load opens a recording and replays its chunks in order.
func Load(path string) (readrows.Source, io.Closer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open recording: %w", err)
	}

	scanner := bufio.NewScanner(file)
	// a single chunk can carry a large value fragment
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	return &replaySource{scanner: scanner, path: path}, file, nil
}

type replaySource struct {
	scanner *bufio.Scanner
	path    string
	line    int
}

func (s *replaySource) Recv() (*chunk.Chunk, error) {
	for s.scanner.Scan() {
		s.line++
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("%s:%d: failed to parse entry: %w", s.path, s.line, err)
		}
		if entry.Chunk == nil {
			return nil, fmt.Errorf("%s:%d: entry has no chunk", s.path, s.line)
		}
		return entry.Chunk, nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}
	return nil, io.EOF
}

// List returns the names of the recordings stored under dir, sorted.
func List(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, defaultRecordingDirectory,
		"*"+recordingExtension))
	if err != nil {
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(filepath.Base(f), recordingExtension))
	}
	sort.Strings(names)
	return names, nil
}
