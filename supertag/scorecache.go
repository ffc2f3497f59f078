package supertag

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// scoreCache memoizes score buffers per sentence, in memory and optionally
// on disk. Cached buffers are cloned on the way out so callers still own
// their result exclusively.
type scoreCache struct {
	mu      sync.RWMutex
	m       map[string]*ScoreBuffer
	dir     string
	modelID string
}

func newScoreCache(dir, modelID string) *scoreCache {
	return &scoreCache{m: make(map[string]*ScoreBuffer), dir: dir, modelID: modelID}
}

func (c *scoreCache) key(tokens []string) string {
	h := sha1.Sum([]byte(c.modelID + "|" + strings.Join(tokens, "\x1f")))
	return hex.EncodeToString(h[:])
}

func (c *scoreCache) get(key string) (*ScoreBuffer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.m[key]
	if !ok {
		return nil, false
	}
	return b.clone(), true
}

func (c *scoreCache) put(key string, b *ScoreBuffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = b.clone()
}

func (c *scoreCache) load(key string) (*ScoreBuffer, bool, error) {
	if c.dir == "" {
		return nil, false, nil
	}
	path := filepath.Join(c.dir, key+".bin")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(data) < 8 {
		return nil, false, fmt.Errorf("cache file broken: %s", path)
	}
	tokens := int(binary.LittleEndian.Uint32(data[:4]))
	targets := int(binary.LittleEndian.Uint32(data[4:8]))
	// Bound both dimensions by the actual payload before multiplying, so a
	// corrupt header cannot overflow or trigger a huge allocation.
	avail := (len(data) - 8) / 4
	if tokens <= 0 || targets <= 0 || tokens > avail || targets > avail/tokens {
		return nil, false, fmt.Errorf("cache truncated: %s", path)
	}
	need := tokens * targets * 4
	if len(data) < 8+need {
		return nil, false, fmt.Errorf("cache truncated: %s", path)
	}
	buf := newScoreBuffer(tokens, targets)
	if err := binary.Read(bytes.NewReader(data[8:8+need]), binary.LittleEndian, buf.scores); err != nil {
		return nil, false, err
	}
	return buf, true, nil
}

func (c *scoreCache) save(key string, b *ScoreBuffer) error {
	if c.dir == "" {
		return nil
	}
	path := filepath.Join(c.dir, key+".bin")
	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.LittleEndian, uint32(b.tokens))
	_ = binary.Write(buf, binary.LittleEndian, uint32(b.targets))
	if err := binary.Write(buf, binary.LittleEndian, b.scores); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
