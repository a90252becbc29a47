package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher следит за файлом результата и вызывает onChange при его замене.
// Наблюдение ведется за каталогом: атомарный rename создает новый inode,
// и подписка на сам файл после первой замены перестала бы срабатывать.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
	logger   *zap.Logger
}

// NewWatcher создает наблюдателя за файлом path
func NewWatcher(path string, onChange func(), logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve result path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		watcher:  fw,
		path:     abs,
		onChange: onChange,
		logger:   logger,
	}, nil
}

// Run обрабатывает события до отмены контекста или закрытия наблюдателя
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				w.logger.Debug("result file changed",
					zap.String("path", w.path), zap.String("op", event.Op.String()))
				w.onChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("result watcher error", zap.Error(err))
		}
	}
}

// Close останавливает наблюдение
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
