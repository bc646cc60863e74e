package codebase

import (
	"io/fs"
	"sync"
	"time"
)

// FileWatcher polls the codebase root and re-parses scripts whose
// modification time changed. OnChange, when set, is called after each
// update; f is nil for a removed file.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	stopOnce     sync.Once
	pollInterval time.Duration
	modTimes     map[string]time.Time
	OnChange     func(path string, f *FileInfo)
}

func NewFileWatcher(c *Codebase, pollInterval time.Duration) *FileWatcher {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: pollInterval,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.Scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Scan()
		}
	}
}

// Scan runs one poll synchronously.
func (w *FileWatcher) Scan() {
	currentFiles := make(map[string]bool)

	err := w.codebase.walkScripts(func(path string, info fs.FileInfo) {
		currentFiles[path] = true

		lastMod, known := w.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			return
		}
		w.modTimes[path] = info.ModTime()
		f, err := w.codebase.ScanFile(path)
		if err != nil {
			log.Warningf("scan %s: %s", path, err)
			return
		}
		w.notify(path, f)
	})
	if err != nil {
		log.Errorf("watch %s: %s", w.codebase.RootDir(), err)
	}

	for path := range w.modTimes {
		if !currentFiles[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			w.notify(path, nil)
		}
	}
}

func (w *FileWatcher) notify(path string, f *FileInfo) {
	if w.OnChange != nil {
		w.OnChange(path, f)
	}
}
