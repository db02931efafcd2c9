package media

import (
	"fmt"
	"io/fs"
	"math/rand"
	"path/filepath"
	"slices"
	"strings"

	"github.com/julianstephens/breakreel/internal/constants"
	apperrors "github.com/julianstephens/breakreel/internal/errors"
	"github.com/julianstephens/breakreel/internal/logger"
)

// Collector picks a random video from a folder tree. It keeps no state
// between calls, so every pick rescans the filesystem.
type Collector struct {
	extensions []string
	intN       func(n int) int
}

// NewCollector returns a collector matching the default video extensions.
func NewCollector() *Collector {
	return &Collector{
		extensions: constants.VideoExtensions,
		intN:       rand.Intn,
	}
}

// WithRand replaces the random source, mostly for tests.
func (c *Collector) WithRand(intN func(n int) int) *Collector {
	c.intN = intN
	return c
}

// Collect lists every matching file under root. Unreadable subdirectories are skipped.
func (c *Collector) Collect(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logger.Debug("Skipping unreadable path", "path", path, "error", walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if c.matches(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return files, nil
}

// PickRandom returns one matching file chosen uniformly at random, or
// ErrMediaNotFound when the folder holds none.
func (c *Collector) PickRandom(root string) (string, error) {
	files, err := c.Collect(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrMediaNotFound, err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w under %s", apperrors.ErrMediaNotFound, root)
	}
	return files[c.intN(len(files))], nil
}

// matches is case-sensitive on purpose: "clip.MP4" is not picked.
func (c *Collector) matches(name string) bool {
	return slices.ContainsFunc(c.extensions, func(ext string) bool {
		return strings.HasSuffix(name, ext)
	})
}
