package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/knadh/koanf/providers/file"
)

// Watch reloads the configuration whenever the file at path changes and
// passes the result to onChange. A reload that fails to load or validate is
// reported as an error and the caller keeps its previous config. Watching
// stops when ctx is cancelled.
func Watch(ctx context.Context, path string, onChange func(*Config, error)) error {
	if path == "" {
		return fmt.Errorf("%w: no config file to watch", ErrLoadConfig)
	}
	if onChange == nil {
		return errors.New("config: nil change callback")
	}

	fp := file.Provider(path)
	err := fp.Watch(func(_ any, werr error) {
		if werr != nil {
			onChange(nil, fmt.Errorf("%w: watch %s: %w", ErrLoadConfig, path, werr))
			return
		}
		onChange(LoadFile(ctx, path))
	})
	if err != nil {
		return fmt.Errorf("%w: watch %s: %w", ErrLoadConfig, path, err)
	}

	go func() {
		<-ctx.Done()
		_ = fp.Unwatch()
	}()
	return nil
}
