package ifp

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"
)

// Parse parses a clip archive from raw XML bytes.
//
// Keys inside each bone are sorted by time, so authoring order does not matter.
// Duplicate clip names are rejected because lookups are by name.
func Parse(data []byte) (*Archive, error) {
	var archive Archive
	if err := xml.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("failed to parse clip archive XML: %w", err)
	}

	seen := make(map[string]bool, len(archive.Anims))
	for i := range archive.Anims {
		anim := &archive.Anims[i]
		if anim.Name == "" {
			return nil, fmt.Errorf("anim #%d in archive %q has no name", i, archive.Name)
		}
		if seen[anim.Name] {
			return nil, fmt.Errorf("duplicate anim %q in archive %q", anim.Name, archive.Name)
		}
		seen[anim.Name] = true

		for j := range anim.Bones {
			keys := anim.Bones[j].Keys
			sort.SliceStable(keys, func(a, b int) bool { return keys[a].T < keys[b].T })
		}
	}

	return &archive, nil
}

// ParseFile parses a clip archive file from disk.
//
// Example:
//
//	archive, err := ParseFile("data/anim/ped.ifp")
//	if err != nil {
//	    log.Fatalf("Failed to parse archive: %v", err)
//	}
//	anim := archive.Find("walk_civi")
func ParseFile(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip archive '%s': %w", path, err)
	}

	archive, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse '%s': %w", path, err)
	}
	return archive, nil
}

// Find returns the clip with the given name, or nil.
func (a *Archive) Find(name string) *Anim {
	for i := range a.Anims {
		if a.Anims[i].Name == name {
			return &a.Anims[i]
		}
	}
	return nil
}
