package clients

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// StorageClient keeps generated receipt files on local disk and hands out
// their public URLs. Filenames get a random prefix so a regenerated receipt
// never clobbers a link that was already handed to a member.
type StorageClient struct {
	BaseDir      string
	PublicPrefix string // URL prefix where files are served, e.g. "/files"
	BaseURL      string // optional absolute base URL used to build file URLs
}

func NewLocalStorage(baseDir, publicPrefix, baseURL string) (*StorageClient, error) {
	if baseDir == "" {
		baseDir = "./receipts"
	}
	if publicPrefix == "" {
		publicPrefix = "/files"
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure storage dir %q: %w", baseDir, err)
	}

	return &StorageClient{BaseDir: baseDir, PublicPrefix: publicPrefix, BaseURL: baseURL}, nil
}

// Save writes data under a unique name (random prefix + provided fileName)
// and returns the stored name. The write goes through a temp file and rename
// so a partially written receipt is never served.
func (s *StorageClient) Save(ctx context.Context, fileName string, data []byte) (string, error) {
	fileName = filepath.Base(fileName)

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}
	final := fmt.Sprintf("%s_%s", hex.EncodeToString(randBytes), fileName)

	path := filepath.Join(s.BaseDir, final)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize file: %w", err)
	}

	return final, nil
}

// GetURL returns the public URL for a saved file: absolute when BaseURL is
// configured, otherwise a path relative to this server.
func (s *StorageClient) GetURL(fileName string) string {
	prefix := s.PublicPrefix
	if prefix == "" {
		prefix = "/files"
	}
	if prefix[0] != '/' {
		prefix = "/" + prefix
	}

	if s.BaseURL != "" {
		base := s.BaseURL
		if base[len(base)-1] == '/' {
			base = base[:len(base)-1]
		}
		return fmt.Sprintf("%s%s/%s", base, prefix, fileName)
	}

	return fmt.Sprintf("%s/%s", prefix, fileName)
}

// CleanupOlderThan deletes receipt files older than d. Members can always
// regenerate a receipt from the ledger, so aging files out is safe.
func (s *StorageClient) CleanupOlderThan(d time.Duration) error {
	now := time.Now()
	return filepath.WalkDir(s.BaseDir, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			return nil
		}
		info, err := de.Info()
		if err != nil {
			return nil
		}
		if now.Sub(info.ModTime()) > d {
			_ = os.Remove(path) // best-effort
		}
		return nil
	})
}
