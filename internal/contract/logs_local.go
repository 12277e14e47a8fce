package contract

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// LogExtension is the suffix of per-user drop log files.
const LogExtension = ".log"

// LocalLogSource implements the LogSource interface over a directory
// on the local file system.
type LocalLogSource struct{}

var _ LogSource = &LocalLogSource{} // Compile-time check

// NewLocalLogSource creates a new instance of the local log source.
func NewLocalLogSource() *LocalLogSource {
	return &LocalLogSource{}
}

// ResolveDir implements the LogSource interface.
func (s *LocalLogSource) ResolveDir(_ context.Context, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access %q: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%q is not a directory", abs)
	}
	return abs, nil
}

// ListUsers implements the LogSource interface.
// The user name is the part of the file name before the first dot, so
// "alice.log" and "alice.2024-01.log" both belong to alice.
func (s *LocalLogSource) ListUsers(_ context.Context, dir string) ([]string, error) {
	files, err := logFiles(dir)
	if err != nil {
		return nil, err
	}

	users := make([]string, 0, len(files))
	for _, name := range files {
		user := logUser(name)
		if user == "" || slices.Contains(users, user) {
			continue
		}
		users = append(users, user)
	}
	slices.Sort(users)
	return users, nil
}

// ReadUserLog implements the LogSource interface.
// Every log file of the user is read in file name order.
func (s *LocalLogSource) ReadUserLog(ctx context.Context, dir string, user string) ([]byte, error) {
	files, err := userLogFiles(dir, user)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("cannot read log for %q: %w", user, err)
		}
		appendLog(&buf, data)
	}
	return buf.Bytes(), nil
}

// ReadAllLogs implements the LogSource interface.
// Files that cannot be read are skipped with a warning.
func (s *LocalLogSource) ReadAllLogs(ctx context.Context, dir string) ([]byte, error) {
	files, err := logFiles(dir)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			LogWarn("Skipping unreadable log "+name, err)
			continue
		}
		appendLog(&buf, data)
	}
	return buf.Bytes(), nil
}

// ClearUserLog implements the LogSource interface.
// Every log file of the user is truncated.
func (s *LocalLogSource) ClearUserLog(_ context.Context, dir string, user string) error {
	files, err := userLogFiles(dir, user)
	if err != nil {
		return err
	}
	for _, name := range files {
		if err := os.Truncate(filepath.Join(dir, name), 0); err != nil {
			return fmt.Errorf("cannot clear log for %q: %w", user, err)
		}
	}
	return nil
}

// logFiles returns the names of the log files in dir, sorted.
func logFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot scan log directory %q: %w", dir, err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), LogExtension) || logUser(entry.Name()) == "" {
			continue
		}
		files = append(files, entry.Name())
	}
	slices.Sort(files)
	return files, nil
}

// userLogFiles returns the log files of a user after validating the name.
// A user without files is reported as fs.ErrNotExist.
func userLogFiles(dir, user string) ([]string, error) {
	if err := ValidateUserName(user); err != nil {
		return nil, err
	}
	files, err := logFiles(dir)
	if err != nil {
		return nil, err
	}
	files = slices.DeleteFunc(files, func(name string) bool { return logUser(name) != user })
	if len(files) == 0 {
		return nil, fmt.Errorf("no log for %q in %s: %w", user, dir, fs.ErrNotExist)
	}
	return files, nil
}

// logUser is the user a log file belongs to.
func logUser(name string) string {
	user, _, _ := strings.Cut(name, ".")
	return user
}

// appendLog adds one file to buf, keeping its last line separate from the next file.
func appendLog(buf *bytes.Buffer, data []byte) {
	buf.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		buf.WriteByte('\n')
	}
}
