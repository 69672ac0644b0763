// Package config implements the persisted key-value store cleanups read
// and save their settings through. Configuration is layered: embedded
// defaults first, then the user's treesweep.toml on top.
package config

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/treesweep/pkg/errors"
	"github.com/arthur-debert/treesweep/pkg/logging"
)

//go:embed defaults.toml
var defaultConfig []byte

// Store is a koanf-backed configuration store persisted as TOML.
type Store struct {
	k    *koanf.Koanf
	path string
}

// NewStore creates a store persisted at the given path. Nothing is loaded
// or written until Load or Save is called.
func NewStore(path string) *Store {
	return &Store{
		k:    koanf.New("."),
		path: path,
	}
}

// Load reads the embedded defaults and then the store's file, if present.
// A missing file is not an error; the defaults apply.
func (s *Store) Load() error {
	logger := logging.GetLogger("config")

	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := k.Load(file.Provider(s.path), toml.Parser()); err != nil {
			return errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", s.path)
		}
		logger.Debug().Str("path", s.path).Msg("Loaded config file")
	} else {
		logger.Debug().Str("path", s.path).Msg("No config file, using defaults")
	}

	s.k = k
	return nil
}

// Save writes the store's current contents to its file as TOML, creating
// parent directories as needed.
func (s *Store) Save() error {
	data, err := gotoml.Marshal(s.k.Raw())
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigSave, "failed to marshal config")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "failed to create config directory for %s", s.path)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "failed to write %s", s.path)
	}

	logger := logging.GetLogger("config")
	logger.Debug().Str("path", s.path).Msg("Saved config file")
	return nil
}

// Path returns the file the store persists to.
func (s *Store) Path() string {
	return s.path
}

// Has reports whether a key is present.
func (s *Store) Has(key string) bool {
	return s.k.Exists(key)
}

// GetString returns the value for key, or def when the key is absent.
func (s *Store) GetString(key, def string) string {
	if !s.k.Exists(key) {
		return def
	}
	return s.k.String(key)
}

// GetBool returns the value for key, or def when the key is absent.
func (s *Store) GetBool(key string, def bool) bool {
	if !s.k.Exists(key) {
		return def
	}
	return s.k.Bool(key)
}

// GetInt returns the value for key, or def when the key is absent.
func (s *Store) GetInt(key string, def int) int {
	if !s.k.Exists(key) {
		return def
	}
	return s.k.Int(key)
}

// Set stores a value under key.
func (s *Store) Set(key string, value interface{}) error {
	if err := s.k.Set(key, value); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "failed to set %s", key)
	}
	return nil
}

// rawBytesProvider lets koanf load an in-memory byte slice (the embedded
// defaults) like any other provider.
type rawBytesProvider struct {
	bytes []byte
}

func (r *rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "rawBytesProvider does not support Read")
}
