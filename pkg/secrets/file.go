package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileConfig reads secrets mounted as files, e.g. Kubernetes secret volumes.
type FileConfig struct {
	Dir string
}

type fileProvider struct {
	dir string
}

func newFileProvider(cfg FileConfig) (Provider, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "/var/run/secrets/devcert"
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("secrets: secret dir %s not accessible: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secrets: secret dir %s is not a directory", dir)
	}
	return &fileProvider{dir: dir}, nil
}

func (f *fileProvider) Name() ProviderType { return ProviderFile }

func (f *fileProvider) Close() error { return nil }

// Fetch reads dir/path. A directory yields one key per file it contains.
func (f *fileProvider) Fetch(_ context.Context, ref Reference) (Secret, error) {
	target := filepath.Join(f.dir, filepath.Clean("/"+ref.Path))
	info, err := os.Stat(target)
	if err != nil {
		return Secret{}, fmt.Errorf("secrets: %s not found: %w", ref.Path, err)
	}

	if !info.IsDir() {
		content, err := os.ReadFile(target)
		if err != nil {
			return Secret{}, err
		}
		return Secret{Data: decodePayload([]byte(strings.TrimSpace(string(content))))}, nil
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return Secret{}, err
	}
	data := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(target, e.Name()))
		if err != nil {
			return Secret{}, err
		}
		data[e.Name()] = strings.TrimSpace(string(content))
	}
	return Secret{Data: data}, nil
}
