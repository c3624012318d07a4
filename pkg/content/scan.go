package content

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/internal/hashutil"
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/types"
)

// Scanner observes the on-disk state of a content directory and turns it
// into ContentItems. Hashing is a separate pass so items are usable, with
// degraded display, before their hashes resolve.
type Scanner struct {
	fs     types.FS
	logger zerolog.Logger
}

// NewScanner creates a Scanner over the given filesystem.
func NewScanner(fs types.FS) *Scanner {
	return &Scanner{
		fs:     fs,
		logger: logging.GetLogger("content.scanner"),
	}
}

// Scan lists the content directory and builds items, merging in stored
// sidecar metadata. A missing directory yields an empty inventory.
func (s *Scanner) Scan(dir string, contentType types.ContentType) ([]*types.ContentItem, error) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileScan, "failed to scan content directory %s", dir)
	}

	store := NewMetadataStore(s.fs, dir)
	index, err := store.Load()
	if err != nil {
		s.logger.Warn().Err(err).Str("dir", dir).Msg("Metadata index unreadable, continuing without it")
		index = map[string]ItemMetadata{}
	}

	var items []*types.ContentItem
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		disabled := strings.HasSuffix(name, types.DisabledSuffix)
		filename := strings.TrimSuffix(name, types.DisabledSuffix)

		item := &types.ContentItem{
			Filename:    filename,
			Path:        filepath.Join(dir, name),
			IsDirectory: entry.IsDir(),
			IsDisabled:  disabled,
			ContentType: contentType,
			Info:        types.LocalOnly(),
			SourceType:  "custom",
		}
		if info, err := entry.Info(); err == nil {
			item.FileSize = info.Size()
		}
		if meta, ok := index[filename]; ok {
			meta.apply(item)
		}

		items = append(items, item)
	}

	s.logger.Debug().Str("dir", dir).Int("items", len(items)).Msg("Scanned content directory")
	return items, nil
}

// ComputeHashes fills SHA1Hash and Fingerprint for items that do not have
// them yet. One unreadable file does not stop the rest; the last error is
// returned after all items were attempted.
func (s *Scanner) ComputeHashes(ctx context.Context, items []*types.ContentItem) error {
	var lastErr error
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if item.IsDirectory || item.SHA1Hash != "" {
			continue
		}

		data, err := s.fs.ReadFile(item.Path)
		if err != nil {
			s.logger.Warn().Err(err).Str("filename", item.Filename).Msg("Failed to read file for hashing")
			lastErr = errors.Wrapf(err, errors.ErrFileHash, "failed to hash %s", item.Filename)
			continue
		}
		item.SHA1Hash = hashutil.SHA1Bytes(data)
		item.Fingerprint = hashutil.Fingerprint(data)
	}
	return lastErr
}

func isNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}
