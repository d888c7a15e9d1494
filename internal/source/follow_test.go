package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/logscan/internal/domain"
)

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	fh, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = fh.WriteString(line + "\n")
	require.NoError(t, err)
	require.NoError(t, fh.Close())
}

func TestFollow_FromStartThenAppended(t *testing.T) {
	path := writeFile(t, "app.log", []byte("one\ntwo\n"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	follower := Follow(ctx, path, FollowOptions{FromStart: true, Poll: true})

	var got []string
	for line := range follower.Lines() {
		got = append(got, line)
		if len(got) == 2 {
			appendLine(t, path, "three")
		}
		if len(got) == 3 {
			break
		}
	}

	assert.Equal(t, []string{"one", "two", "three"}, got)
	assert.NoError(t, follower.Err())
}

func TestFollow_StopsOnCancel(t *testing.T) {
	path := writeFile(t, "app.log", []byte("existing\n"))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var got []string
	for line := range Follow(ctx, path, FollowOptions{Poll: true}).Lines() {
		got = append(got, line)
	}

	// Existing content is skipped when not reading from the start
	assert.Empty(t, got)
}

func TestFollow_MissingFile(t *testing.T) {
	follower := Follow(context.Background(), filepath.Join(t.TempDir(), "missing.log"), FollowOptions{})

	for range follower.Lines() {
		t.Fatal("no lines expected")
	}
	assert.ErrorIs(t, follower.Err(), domain.ErrInputUnavailable)
}
