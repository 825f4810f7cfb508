package game

import (
	"fmt"
	"log"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/decker502/pedanim/internal/ifp"
	"github.com/decker502/pedanim/pkg/embedded"
)

// DefaultArchiveDir is the data directory holding clip archives.
const DefaultArchiveDir = "data/anim"

// ResourceManager is responsible for loading and caching clip archives.
// Archives are parsed once per file name and shared by every pedestrian;
// binding a clip to a skeleton happens per pedestrian in pkg/clip.
//
// All reads go through pkg/embedded, so the same manager serves the
// embedded data set and a data directory on disk (see embedded.InitFromDir).
//
// Thread Safety Note:
// The archive cache is guarded by a mutex so the viewer's reload goroutine
// can call ClearCache while the game loop is not running a tick. Parsed
// archives themselves are immutable after loading.
//
// Usage:
//
//	rm := NewResourceManager(DefaultArchiveDir)
//	archive, err := rm.LoadArchive("man.ifp")
//	if err != nil {
//	    log.Printf("Failed to load archive: %v", err)
//	}
type ResourceManager struct {
	archiveDir   string
	archiveCache map[string]*ifp.Archive // Cache for parsed archives: file name -> Archive
	mu           sync.Mutex
}

// NewResourceManager creates a ResourceManager reading archives from archiveDir.
// An empty archiveDir selects DefaultArchiveDir.
func NewResourceManager(archiveDir string) *ResourceManager {
	if archiveDir == "" {
		archiveDir = DefaultArchiveDir
	}
	return &ResourceManager{
		archiveDir:   strings.TrimSuffix(archiveDir, "/"),
		archiveCache: make(map[string]*ifp.Archive),
	}
}

// LoadArchive loads and parses the archive with the given file name (e.g. "man.ifp").
// If the archive has already been loaded, it returns the cached version.
//
// Error handling:
//   - Returns an error if the file does not exist or cannot be read.
//   - Returns an error if the archive is malformed.
//   - Failed loads are not cached, so a later call retries.
func (rm *ResourceManager) LoadArchive(fileName string) (*ifp.Archive, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if cached, exists := rm.archiveCache[fileName]; exists {
		return cached, nil
	}

	filePath := path.Join(rm.archiveDir, fileName)
	data, err := embedded.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive %s: %w", filePath, err)
	}

	archive, err := ifp.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse archive %s: %w", filePath, err)
	}

	rm.archiveCache[fileName] = archive
	log.Printf("[ResourceManager] Loaded archive %s (%d clips)", fileName, len(archive.Anims))
	return archive, nil
}

// GetArchive retrieves a previously loaded archive from the cache.
// It returns nil if the archive has not been loaded yet.
func (rm *ResourceManager) GetArchive(fileName string) *ifp.Archive {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.archiveCache[fileName]
}

// PreloadArchives loads every *.ifp file in the archive directory.
// It stops at the first archive that fails to load.
func (rm *ResourceManager) PreloadArchives() error {
	matches, err := embedded.Glob(rm.archiveDir + "/*.ifp")
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", rm.archiveDir, err)
	}
	for _, match := range matches {
		if _, err := rm.LoadArchive(path.Base(match)); err != nil {
			return err
		}
	}
	return nil
}

// ArchiveNames lists the file names of all cached archives in sorted order.
func (rm *ResourceManager) ArchiveNames() []string {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	names := make([]string, 0, len(rm.archiveCache))
	for name := range rm.archiveCache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearCache drops every cached archive, e.g. after the data directory changed on disk.
func (rm *ResourceManager) ClearCache() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	clear(rm.archiveCache)
}
