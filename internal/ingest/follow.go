package ingest

import (
	"io"
	"os"

	"github.com/agentrace/agentrace/internal/trace"
)

// Follower tails a JSONL step file during a live run. Each Poll returns only
// the steps appended since the previous call, tracked by byte offset so the
// file is never re-read from the start.
type Follower struct {
	path   string
	offset int64
}

// NewFollower starts following path. When fromStart is false the follower
// skips everything already in the file and reports appended steps only.
func NewFollower(path string, fromStart bool) *Follower {
	f := &Follower{path: path}
	if !fromStart {
		if info, err := os.Stat(path); err == nil {
			f.offset = info.Size()
		}
	}
	return f
}

// Poll reads any newly appended steps. A missing or unchanged file yields
// nil, nil.
func (f *Follower) Poll() ([]*trace.Step, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return nil, nil
	}
	if info.Size() <= f.offset {
		return nil, nil
	}

	file, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return nil, err
	}

	steps := ParseSteps(file)
	f.offset = info.Size()
	return steps, nil
}
