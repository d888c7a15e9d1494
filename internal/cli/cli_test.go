package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/logscan/internal/constants"
)

const sampleLog = `2024-01-05 08:00:00 [INFO] service started
2024-01-05 08:01:12 [ERROR] disk full on /data
05/01/2024 09:30; WARNING; disk usage at 91%

2024-01-06 [DEBUG] cache warmed
random unstructured text
ERROR: disk controller reset
`

// writeLog writes content to a log file in a fresh temp dir
func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes logscan in-process and returns its exit code and output
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func outputLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestAnalyze_LevelAndKeyword(t *testing.T) {
	path := writeLog(t, sampleLog)

	code, stdout, stderr := run(t, "analyze", path, "--level", "ERROR", "--keyword", "disk", "--color", "never")

	require.Equal(t, 0, code, stderr)
	lines := outputLines(stdout)
	require.Len(t, lines, 4)
	assert.Equal(t, "2024-01-05 08:01:12  ERROR    disk full on /data", lines[1])
	assert.Equal(t, "-                    ERROR    disk controller reset", lines[2])
	assert.Equal(t, "Number of results: 2", lines[3])
}

func TestAnalyze_LogPathFlag(t *testing.T) {
	path := writeLog(t, sampleLog)

	code, stdout, stderr := run(t, "analyze", "-p", path, "--date", "06/01/2024", "--format", "csv")

	require.Equal(t, 0, code, stderr)
	records, err := csv.NewReader(strings.NewReader(stdout)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"5", "2024-01-06", "DEBUG", "cache warmed", "2024-01-06 [DEBUG] cache warmed"}, records[1])
}

func TestAnalyze_Limit(t *testing.T) {
	path := writeLog(t, sampleLog)

	code, stdout, _ := run(t, "analyze", path, "--limit", "2", "--format", "json")

	require.Equal(t, 0, code)
	lines := outputLines(stdout)
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.EqualValues(t, 2, entry["line"])
}

func TestAnalyze_Regex(t *testing.T) {
	path := writeLog(t, sampleLog)

	code, stdout, _ := run(t, "analyze", path, "-k", `full|reset`, "--regex", "--format", "csv")

	require.Equal(t, 0, code)
	records, err := csv.NewReader(strings.NewReader(stdout)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2", records[1][0])
	assert.Equal(t, "7", records[2][0])
}

func TestAnalyze_OutputFile(t *testing.T) {
	path := writeLog(t, sampleLog)
	out := filepath.Join(t.TempDir(), "errors.json")

	code, stdout, stderr := run(t, "analyze", path, "-l", "error", "-o", out, "--format", "json")

	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, outputLines(string(data)), 2)
}

func TestAnalyze_Errors(t *testing.T) {
	path := writeLog(t, sampleLog)

	tests := []struct {
		name string
		args []string
		code string
		msg  string
	}{
		{
			name: "invalid level",
			args: []string{"analyze", path, "--level", "loud"},
			code: "INVALID_LEVEL",
		},
		{
			name: "invalid date",
			args: []string{"analyze", path, "--date", "2024-13-45"},
			code: "INVALID_DATE",
		},
		{
			name: "reversed range",
			args: []string{"analyze", path, "--start", "2024-02-01", "--end", "2024-01-01"},
			code: "INVALID_DATE",
		},
		{
			name: "date with range",
			args: []string{"analyze", path, "--date", "2024-01-05", "--start", "2024-01-01"},
			code: "INVALID_DATE",
		},
		{
			name: "bad regex",
			args: []string{"analyze", path, "-k", "(", "--regex"},
			code: "INVALID_PATTERN",
		},
		{
			name: "negative limit",
			args: []string{"analyze", path, "--limit", "-1"},
			code: "INVALID_QUERY",
		},
		{
			name: "missing file",
			args: []string{"analyze", filepath.Join(t.TempDir(), "nope.log")},
			code: "INPUT_UNAVAILABLE",
		},
		{
			name: "no path",
			args: []string{"analyze"},
			code: "INPUT_UNAVAILABLE",
			msg:  "no log file given",
		},
		{
			name: "conflicting paths",
			args: []string{"analyze", path, "-p", "other.log"},
			code: "INPUT_UNAVAILABLE",
			msg:  "conflicting log paths",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(t, append(tt.args, "--format", "json")...)

			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(stderr), &resp), stderr)
			assert.Equal(t, tt.code, resp.Code)
			if tt.msg != "" {
				assert.Contains(t, resp.Error, tt.msg)
			}
		})
	}
}

func TestAnalyze_TextError(t *testing.T) {
	path := writeLog(t, sampleLog)

	code, stdout, stderr := run(t, "analyze", path, "--level", "loud")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, "Error: "), stderr)
}

func TestAnalyze_FollowCompressedRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log.gz")
	// gzip magic bytes are enough for detection
	require.NoError(t, os.WriteFile(path, []byte{0x1f, 0x8b, 0x08, 0x00}, 0o644))

	code, _, stderr := run(t, "analyze", path, "--follow")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "cannot follow")
}

func TestOverview(t *testing.T) {
	path := writeLog(t, sampleLog)

	code, stdout, stderr := run(t, "overview", path, "--format", "json")

	require.Equal(t, 0, code, stderr)

	var resp struct {
		TotalLines int            `json:"total_lines"`
		Parsed     int            `json:"parsed"`
		Unparsed   int            `json:"unparsed"`
		Levels     map[string]int `json:"levels"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, 7, resp.TotalLines)
	assert.Equal(t, 6, resp.Parsed)
	assert.Equal(t, 1, resp.Unparsed)
	assert.Equal(t, 2, resp.Levels["ERROR"])
	assert.Equal(t, 1, resp.Levels["UNKNOWN"])

	sum := 0
	for _, n := range resp.Levels {
		sum += n
	}
	assert.Equal(t, resp.Parsed, sum)
}

func TestOverview_Text(t *testing.T) {
	path := writeLog(t, sampleLog)

	code, stdout, _ := run(t, "overview", path, "--color", "never")

	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Log Level")
	assert.Contains(t, stdout, "WARNING")
	assert.Contains(t, stdout, path)
}

func TestOverview_Idempotent(t *testing.T) {
	path := writeLog(t, sampleLog)

	_, first, _ := run(t, "overview", path, "--format", "csv")
	_, second, _ := run(t, "overview", path, "--format", "csv")

	assert.Equal(t, first, second)
}

func TestVersion(t *testing.T) {
	code, stdout, _ := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "logscan version dev\n", stdout)

	code, stdout, _ = run(t, "--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "logscan version dev\n", stdout)
}

func TestSettingsPrecedence(t *testing.T) {
	path := writeLog(t, sampleLog)
	cfg := filepath.Join(t.TempDir(), "logscan.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("output:\n  format: json\n"), 0o644))

	t.Run("config file", func(t *testing.T) {
		code, stdout, stderr := run(t, "overview", path, "-c", cfg)
		require.Equal(t, 0, code, stderr)
		assert.True(t, json.Valid([]byte(stdout)))
	})

	t.Run("environment over config", func(t *testing.T) {
		t.Setenv("LOGSCAN_OUTPUT_FORMAT", "csv")
		code, stdout, stderr := run(t, "overview", path, "-c", cfg)
		require.Equal(t, 0, code, stderr)
		assert.True(t, strings.HasPrefix(stdout, "level,count\n"), stdout)
	})

	t.Run("flag over environment", func(t *testing.T) {
		t.Setenv("LOGSCAN_OUTPUT_FORMAT", "csv")
		code, stdout, stderr := run(t, "overview", path, "-c", cfg, "--format", "text", "--color", "never")
		require.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "Log Level")
	})

	t.Run("explicit config must exist", func(t *testing.T) {
		code, _, stderr := run(t, "overview", path, "-c", filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "config file not found")
	})

	t.Run("invalid env value", func(t *testing.T) {
		t.Setenv("LOGSCAN_OUTPUT_FORMAT", "xml")
		code, _, stderr := run(t, "overview", path)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "invalid configuration")
	})
}

func TestVerboseLogsToStderr(t *testing.T) {
	path := writeLog(t, sampleLog)

	code, stdout, stderr := run(t, "analyze", path, "-v", "--format", "csv")

	require.Equal(t, 0, code)
	assert.NotContains(t, stdout, "analyze complete")
	assert.Contains(t, stderr, "analyze complete")
}

func TestLongLineDoesNotAbortScan(t *testing.T) {
	long := "2024-01-05 [WARNING] " + strings.Repeat("x", 2*constants.MaxLineLength)
	path := writeLog(t, "2024-01-05 [ERROR] before\n"+long+"\n2024-01-05 [INFO] after\n")

	t.Run("overview", func(t *testing.T) {
		code, stdout, stderr := run(t, "overview", path, "--format", "json", "-v")
		require.Equal(t, 0, code, stderr)

		var resp struct {
			TotalLines int            `json:"total_lines"`
			Parsed     int            `json:"parsed"`
			Levels     map[string]int `json:"levels"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
		assert.Equal(t, 3, resp.TotalLines)
		assert.Equal(t, 3, resp.Parsed)
		assert.Equal(t, 1, resp.Levels["WARNING"])
		assert.Contains(t, stderr, "truncated long lines")
	})

	t.Run("analyze", func(t *testing.T) {
		code, stdout, stderr := run(t, "analyze", path, "-l", "info", "--format", "csv")
		require.Equal(t, 0, code, stderr)

		records, err := csv.NewReader(strings.NewReader(stdout)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "3", records[1][0])
		assert.Equal(t, "after", records[1][3])
	})
}

func TestOutputSameAsInputRejected(t *testing.T) {
	tests := []struct {
		name   string
		output func(path string) string
	}{
		{"same path", func(path string) string { return path }},
		{"hard link", func(path string) string {
			link := filepath.Join(t.TempDir(), "hard.log")
			require.NoError(t, os.Link(path, link))
			return link
		}},
		{"symlink", func(path string) string {
			link := filepath.Join(t.TempDir(), "link.log")
			require.NoError(t, os.Symlink(path, link))
			return link
		}},
	}

	for _, tt := range tests {
		for _, cmd := range []string{"analyze", "overview"} {
			t.Run(tt.name+"/"+cmd, func(t *testing.T) {
				path := writeLog(t, sampleLog)

				code, _, stderr := run(t, cmd, path, "-o", tt.output(path), "--format", "json")

				assert.Equal(t, 1, code)
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal([]byte(stderr), &resp), stderr)
				assert.Equal(t, "INVALID_OUTPUT", resp.Code)

				data, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, sampleLog, string(data))
			})
		}
	}
}
