package decode

import (
	"fmt"
	"sync"

	"github.com/barasher/go-exiftool"

	"gallery-inspector/internal/logging"
)

// The exiftool process pool is shared by every decode that needs container
// metadata. barasher's pool is not safe for concurrent ExtractMetadata
// calls, so etMu serializes access.
var (
	etOnce sync.Once
	etPool *exiftool.Exiftool
	etErr  error
	etMu   sync.Mutex
)

func exiftoolPool() (*exiftool.Exiftool, error) {
	etOnce.Do(func() {
		etPool, etErr = exiftool.NewExiftool()
		if etErr != nil {
			logging.Warn("exiftool unavailable, container metadata disabled: %v", etErr)
		}
	})
	return etPool, etErr
}

// CloseExiftool shuts down the shared exiftool process pool. Call once at
// process exit; decodes after this point lose container metadata.
func CloseExiftool() {
	etMu.Lock()
	defer etMu.Unlock()
	if etPool != nil {
		if err := etPool.Close(); err != nil {
			logging.Warn("closing exiftool pool: %v", err)
		}
		etPool = nil
	}
}

// containerMeta is the flat field map exiftool reports for one file.
type containerMeta map[string]interface{}

// readContainer extracts the container-level metadata of a single file.
func readContainer(path string) (containerMeta, error) {
	if _, err := exiftoolPool(); err != nil {
		return nil, err
	}

	etMu.Lock()
	if etPool == nil {
		etMu.Unlock()
		return nil, fmt.Errorf("exiftool pool is closed")
	}
	results := etPool.ExtractMetadata(path)
	etMu.Unlock()

	if len(results) == 0 {
		return nil, fmt.Errorf("no metadata returned for %s", path)
	}
	if results[0].Err != nil {
		return nil, results[0].Err
	}
	return containerMeta(results[0].Fields), nil
}

func (m containerMeta) str(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

func (m containerMeta) float(keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		}
	}
	return 0, false
}

func (m containerMeta) int(keys ...string) (int, bool) {
	if v, ok := m.float(keys...); ok {
		return int(v), true
	}
	return 0, false
}
