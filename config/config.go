// Package config reads the colortrack JSON configuration file.
package config

import (
	"path/filepath"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/colortrack/logging"
	"go.viam.com/colortrack/vision/objectdetection"
	"go.viam.com/colortrack/vision/segmentation"
	"go.viam.com/colortrack/vision/tracker"
)

// The detector types a config can name.
const (
	DetectorTypeFile   = "file"
	DetectorTypeSimple = "simple"
)

// DefaultSimpleThreshold is the luminance threshold of the simple detector.
const DefaultSimpleThreshold = 20

// Config describes a tracking run. MaxWidth scales wider frames down before
// processing; 0 keeps them as is.
type Config struct {
	Mode          string          `json:"mode,omitempty"`
	Backend       string          `json:"backend,omitempty"`
	Draw          bool            `json:"draw,omitempty"`
	ShowMask      bool            `json:"show_mask,omitempty"`
	MinConfidence float64         `json:"min_confidence,omitempty"`
	Labels        []string        `json:"labels,omitempty"`
	Debug         bool            `json:"debug,omitempty"`
	MaxWidth      int             `json:"max_width,omitempty"`
	Detector      *DetectorConfig `json:"detector,omitempty"`
	// Segmenter holds the attributes of a segmentation.ColorSegmenterConfig.
	Segmenter AttributeMap `json:"segmenter,omitempty"`

	ConfigFilePath string `json:"-"`
}

// DetectorConfig selects where detections come from: a JSON file of
// precomputed model output, or the built in dark object detector.
type DetectorConfig struct {
	Type      string  `json:"type"`
	Path      string  `json:"path,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// Validate returns every problem with the config.
func (c *Config) Validate() error {
	var err error
	if c.MaxWidth < 0 {
		err = multierr.Append(err, errors.Errorf("max_width cannot be negative, got %d", c.MaxWidth))
	}
	if c.Detector != nil {
		switch c.Detector.Type {
		case DetectorTypeFile:
			if c.Detector.Path == "" {
				err = multierr.Append(err, errors.New("detector: file detector needs a path"))
			}
		case DetectorTypeSimple:
			if c.Detector.Threshold < 0 || c.Detector.Threshold > 256 {
				err = multierr.Append(err, errors.Errorf("detector: threshold must be between 0 and 256, got %v", c.Detector.Threshold))
			}
		default:
			err = multierr.Append(err, errors.Errorf("detector: unknown type %q", c.Detector.Type))
		}
	}
	tc, tErr := c.TrackerConfig()
	if tErr != nil {
		return multierr.Append(err, tErr)
	}
	return multierr.Append(err, tc.Validate())
}

// SegmenterConfig decodes the segmenter attributes.
func (c *Config) SegmenterConfig() (*segmentation.ColorSegmenterConfig, error) {
	var conf segmentation.ColorSegmenterConfig
	if len(c.Segmenter) == 0 {
		return &conf, nil
	}
	if _, err := TransformAttributeMapToStruct(&conf, c.Segmenter); err != nil {
		return nil, errors.Wrap(err, "segmenter")
	}
	return &conf, nil
}

// TrackerConfig converts the file settings into a tracker config.
func (c *Config) TrackerConfig() (*tracker.Config, error) {
	seg, err := c.SegmenterConfig()
	if err != nil {
		return nil, err
	}
	mode, err := tracker.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	return &tracker.Config{
		Mode:          mode,
		Backend:       c.Backend,
		Segmenter:     seg,
		Draw:          c.Draw,
		ShowMask:      c.ShowMask,
		MinConfidence: c.MinConfidence,
		Labels:        c.Labels,
	}, nil
}

// NewDetector builds the configured detector, or returns nil when none is configured.
// A relative file path is resolved against the directory of the config file.
func (c *Config) NewDetector() (objectdetection.Detector, error) {
	if c.Detector == nil {
		return nil, nil
	}
	switch c.Detector.Type {
	case DetectorTypeFile:
		path := c.Detector.Path
		if !filepath.IsAbs(path) && c.ConfigFilePath != "" {
			path = filepath.Join(filepath.Dir(c.ConfigFilePath), path)
		}
		dets, err := objectdetection.ReadDetectionsFromFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read detections %s", path)
		}
		return objectdetection.NewStaticDetector(dets), nil
	case DetectorTypeSimple:
		threshold := c.Detector.Threshold
		if threshold == 0 {
			threshold = DefaultSimpleThreshold
		}
		return objectdetection.NewSimpleDetector(threshold), nil
	default:
		return nil, errors.Errorf("unknown detector type %q", c.Detector.Type)
	}
}

// ApplyLogLevel sets logger to debug when either the command line or the config
// file asks for it, and to info otherwise.
func ApplyLogLevel(logger logging.Logger, cmdLineDebug bool, c *Config) {
	if cmdLineDebug || (c != nil && c.Debug) {
		logger.SetLevel(logging.DebugLevel)
		return
	}
	logger.SetLevel(logging.InfoLevel)
}

// Schema describes the config file as a JSON schema.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}

// SegmenterSchema describes the segmenter attributes as a JSON schema.
func SegmenterSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&segmentation.ColorSegmenterConfig{})
}
