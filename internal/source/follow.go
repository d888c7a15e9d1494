package source

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/nxadm/tail"
	"go.uber.org/zap"

	"github.com/charliek/logscan/internal/domain"
)

// FollowOptions configures Follow
type FollowOptions struct {
	// FromStart reads existing content before waiting for new lines.
	// Otherwise only lines appended after the call are returned.
	FromStart bool
	// Poll watches the file by polling instead of inotify
	Poll   bool
	Logger *zap.Logger
}

// Follower streams lines appended to a file, like tail -f
type Follower struct {
	ctx    context.Context
	path   string
	opts   FollowOptions
	logger *zap.Logger
	err    error
}

// Follow creates a Follower for path. Nothing is read until Lines is iterated.
func Follow(ctx context.Context, path string, opts FollowOptions) *Follower {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Follower{ctx: ctx, path: path, opts: opts, logger: logger}
}

// Lines yields lines as they are written. The sequence ends when the
// context is cancelled, the caller stops, or the tail fails.
func (f *Follower) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		f.err = nil

		cfg := tail.Config{
			Follow:    true,
			ReOpen:    true,
			MustExist: true,
			Poll:      f.opts.Poll,
			Logger:    tail.DiscardingLogger,
		}
		if !f.opts.FromStart {
			cfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
		}

		t, err := tail.TailFile(f.path, cfg)
		if err != nil {
			f.err = fmt.Errorf("%w: %w", domain.ErrInputUnavailable, err)
			return
		}
		defer t.Cleanup()
		defer t.Stop()

		f.logger.Debug("following file", zap.String("file", f.path), zap.Bool("from_start", f.opts.FromStart))

		for {
			select {
			case <-f.ctx.Done():
				f.logger.Debug("stopped following file", zap.String("file", f.path))
				return
			case line, ok := <-t.Lines:
				if !ok {
					f.logger.Warn("tail channel closed", zap.String("file", f.path))
					return
				}
				if line.Err != nil {
					f.logger.Warn("error reading line", zap.String("file", f.path), zap.Error(line.Err))
					continue
				}
				if !yield(line.Text) {
					return
				}
			}
		}
	}
}

// Err returns the error that prevented following, if any
func (f *Follower) Err() error {
	return f.err
}
