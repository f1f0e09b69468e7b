package config

import (
	"bytes"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"go.viam.com/colortrack/logging"
)

// Read reads a config from the given file, expanding ${VAR} references from the environment.
func Read(filePath string, logger logging.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
// The contents may use JSON5 comments and trailing commas.
func FromReader(originalPath string, r io.Reader, logger logging.Logger) (*Config, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config %s", originalPath)
	}
	cfg := Config{ConfigFilePath: originalPath}
	if err := json5.Unmarshal(buf, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", originalPath)
	}
	if logger != nil {
		logger.Debugw("read config", "path", originalPath, "mode", cfg.Mode, "backend", cfg.Backend)
	}
	return &cfg, nil
}
