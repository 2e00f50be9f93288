package avatar

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"

	"github.com/partydeck/playerlink/internal/model"
	"github.com/partydeck/playerlink/internal/storage"
)

// DefaultCatalog is the built-in avatar set used when no catalog file is
// provided. Keys match the client's bundled avatar art.
var DefaultCatalog = []string{
	"fox", "owl", "panda", "tiger", "koala", "otter",
	"raccoon", "sloth", "axolotl", "capuchin", "gecko", "narwhal",
}

// Service provides the fixed avatar catalog and key validation
type Service struct {
	storage storage.Storage

	mu      sync.RWMutex
	catalog []string
	keys    map[string]struct{}
}

// New creates a new avatar catalog service
func New(storage storage.Storage) *Service {
	return &Service{
		storage: storage,
		keys:    make(map[string]struct{}),
	}
}

// LoadDefault loads the built-in catalog
func (s *Service) LoadDefault() {
	s.loadKeys(DefaultCatalog)
}

// LoadFromStorage loads the catalog from storage, falling back to the
// built-in catalog when storage holds none
func (s *Service) LoadFromStorage(ctx context.Context) error {
	avatars, err := s.storage.GetAvatarCatalog(ctx)
	if err != nil {
		return err
	}
	if len(avatars) == 0 {
		avatars = DefaultCatalog
	}
	s.loadKeys(avatars)
	return nil
}

// LoadFromFile loads the catalog from a file (one avatar key per line)
// and persists it to storage
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var avatars []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key := strings.TrimSpace(scanner.Text())
		if key == "" || strings.HasPrefix(key, "#") {
			continue
		}
		avatars = append(avatars, key)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if err := s.storage.SaveAvatarCatalog(ctx, avatars); err != nil {
		return err
	}

	s.loadKeys(avatars)
	return nil
}

func (s *Service) loadKeys(avatars []string) {
	keys := make(map[string]struct{}, len(avatars))
	for _, a := range avatars {
		keys[a] = struct{}{}
	}

	s.mu.Lock()
	s.catalog = avatars
	s.keys = keys
	s.mu.Unlock()
}

// Catalog returns the loaded avatar keys in catalog order
func (s *Service) Catalog() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]string, len(s.catalog))
	copy(result, s.catalog)
	return result
}

// Validate checks that an avatar key is in the catalog.
// The empty key is valid; it means "no avatar chosen yet".
func (s *Service) Validate(avatarID string) error {
	if avatarID == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.keys[avatarID]; !ok {
		return model.ErrInvalidAvatar
	}
	return nil
}
