// Package registry discovers worker definitions on disk and indexes them by
// queue name for the orchestrator-side commands.
package registry

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/steprelay/steprelay/internal/workercfg"
)

// Entry is one discovered worker definition.
type Entry struct {
	// Path is the definition file, relative to the scanned directory.
	Path string `json:"path"`
	// Queue is the declared queue name, or the file-derived default.
	Queue string `json:"queue"`
	// Descriptor is the typed config as declared.
	Descriptor *workercfg.Descriptor `json:"config"`
}

// DuplicateQueueError reports two definitions resolving to the same queue.
type DuplicateQueueError struct {
	Queue string
	Paths [2]string
}

func (e *DuplicateQueueError) Error() string {
	return fmt.Sprintf("queue %q declared by both %s and %s", e.Queue, e.Paths[0], e.Paths[1])
}

// Registry holds the discovered definitions of one scan, keyed by queue.
type Registry struct {
	byQueue map[string]Entry
}

// Definitions lists the worker definition files (.yaml, .yml, .json) under
// dir, sorted by path.
func Definitions(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isDefinition(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Scan loads every definition under dir into a registry. The first
// unloadable definition or duplicate queue aborts the scan; a registry with
// a half-known queue set is worse than no registry.
func Scan(dir string, loader *workercfg.Loader) (*Registry, error) {
	if loader == nil {
		loader = workercfg.NewLoader()
	}

	paths, err := Definitions(dir)
	if err != nil {
		return nil, err
	}

	reg := &Registry{byQueue: map[string]Entry{}}
	for _, path := range paths {
		descriptor, err := loader.LoadDescriptor(path)
		if err != nil {
			return nil, err
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		queue := descriptor.Queue
		if queue == "" {
			queue = DefaultQueue(path)
		}
		if existing, ok := reg.byQueue[queue]; ok {
			return nil, &DuplicateQueueError{Queue: queue, Paths: [2]string{existing.Path, rel}}
		}
		reg.byQueue[queue] = Entry{Path: rel, Queue: queue, Descriptor: descriptor}
	}
	return reg, nil
}

// Resolve returns the definition registered for a queue.
func (r *Registry) Resolve(queue string) (Entry, bool) {
	entry, ok := r.byQueue[queue]
	return entry, ok
}

// Entries returns all definitions ordered by queue name.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.byQueue))
	for _, entry := range r.byQueue {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Queue < entries[j].Queue })
	return entries
}

// DefaultQueue derives a queue name from a definition path: the base name
// with the format extension and any ".step" suffix stripped, so both
// "hello.yaml" and "hello.step.yaml" default to "hello".
func DefaultQueue(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, ".step")
}

func isDefinition(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
