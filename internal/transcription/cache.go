package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"shortgen/internal/fileutil"
	"shortgen/internal/logging"
)

const cacheLockRetry = 50 * time.Millisecond

// Cache is a Transcriber decorator that persists results on disk keyed by the
// audio content and the request parameters.
type Cache struct {
	inner  Transcriber
	dir    string
	logger *slog.Logger
}

// NewCache wraps inner with a JSON result cache stored under dir.
func NewCache(inner Transcriber, dir string, logger *slog.Logger) *Cache {
	return &Cache{
		inner:  inner,
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "transcript_cache"),
	}
}

// Name reports the wrapped backend name.
func (c *Cache) Name() string {
	return c.inner.Name()
}

// cacheEntry is the on-disk representation of a cached result.
type cacheEntry struct {
	Key       string    `json:"key"`
	AudioHash string    `json:"audio_hash"`
	CreatedAt time.Time `json:"created_at"`
	Result    Result    `json:"result"`
}

// Key derives the cache key for req. The audio file must exist.
func (c *Cache) Key(req Request) (string, string, error) {
	audioHash, err := fileutil.HashFile(req.AudioPath)
	if err != nil {
		return "", "", err
	}
	material := strings.Join([]string{audioHash, c.inner.Name(), req.Model, req.Language}, "\x00")
	key, err := fileutil.HashReader(strings.NewReader(material))
	if err != nil {
		return "", "", err
	}
	return key, audioHash, nil
}

// Transcribe returns a cached result when one exists and otherwise delegates
// to the wrapped backend and stores its result. Cache problems never fail the
// call; they only cost a fresh transcription.
func (c *Cache) Transcribe(ctx context.Context, req Request) (Result, error) {
	key, audioHash, err := c.Key(req)
	if err != nil {
		c.logger.Debug("transcript cache bypassed", logging.String("reason", "hash_failed"), logging.Error(err))
		return c.inner.Transcribe(ctx, req)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		logging.WarnWithContext(c.logger, "transcript cache unavailable", "transcript_cache_dir_failed",
			logging.String(logging.FieldImpact, "transcription runs without cache"),
			logging.String(logging.FieldErrorHint, "check permissions on paths.cache_dir"),
			logging.Error(err),
		)
		return c.inner.Transcribe(ctx, req)
	}

	entryPath := filepath.Join(c.dir, key+".json")
	lock := flock.New(entryPath + ".lock")
	locked, err := lock.TryLockContext(ctx, cacheLockRetry)
	if err != nil || !locked {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		c.logger.Debug("transcript cache lock unavailable", logging.Error(err))
		return c.inner.Transcribe(ctx, req)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if result, ok := c.read(entryPath, key); ok {
		c.logger.Info("transcript cache hit",
			logging.String("decision_result", "hit"),
			logging.String("backend", c.inner.Name()),
			logging.String("key", key[:12]),
		)
		return result, nil
	}

	result, err := c.inner.Transcribe(ctx, req)
	if err != nil {
		return Result{}, err
	}

	entry := cacheEntry{Key: key, AudioHash: audioHash, CreatedAt: time.Now().UTC(), Result: result}
	if err := c.write(entryPath, entry); err != nil {
		logging.WarnWithContext(c.logger, "transcript cache write failed", "transcript_cache_write_failed",
			logging.String(logging.FieldImpact, "next run will transcribe again"),
			logging.String(logging.FieldErrorHint, "check free space and permissions on paths.cache_dir"),
			logging.Error(err),
		)
	}
	return result, nil
}

func (c *Cache) read(path, key string) (Result, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("transcript cache read failed", logging.Error(err))
		}
		return Result{}, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Key != key {
		c.logger.Info("transcript cache entry discarded",
			logging.String("decision_result", "miss"),
			logging.String("decision_reason", "corrupt_entry"),
			logging.String("path", path),
		)
		return Result{}, false
	}
	if entry.Result.Segments == nil {
		entry.Result.Segments = []Segment{}
	}
	return entry.Result, true
}

func (c *Cache) write(path string, entry cacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}
