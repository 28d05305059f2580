package corpus

import (
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/causalbio/sdk/statement"
)

var (
	loggerMu sync.RWMutex
	logger   = slog.Default()
)

// SetLogger routes the operation logs of this package to the given
// logger. Passing nil restores the default logger.
func SetLogger(l *slog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l == nil {
		l = slog.Default()
	}
	logger = l
}

func log() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// Save writes a corpus to a JSON file, preserving support links between
// the saved statements. Paths ending in .gz are gzip-compressed.
func Save(path string, stmts []statement.Statement) error {
	log().Info("saving statements", "count", len(stmts), "path", path)
	data, err := statement.MarshalAll(stmts)
	if err != nil {
		return fmt.Errorf("marshal corpus: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("close gzip %s: %w", path, err)
		}
	}
	return f.Close()
}

// Load reads a corpus from a JSON file written by Save, rewiring support
// links between the loaded statements. Paths ending in .gz are
// decompressed.
func Load(path string) ([]statement.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	stmts, err := statement.UnmarshalAll(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal corpus %s: %w", path, err)
	}
	log().Info("loaded statements", "count", len(stmts), "path", path)
	return stmts, nil
}
