// Package tracker runs object detection and color segmentation over frames and
// reports the positions of what they find.
package tracker

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/colortrack/logging"
	"go.viam.com/colortrack/vision/objectdetection"
	"go.viam.com/colortrack/vision/position"
	"go.viam.com/colortrack/vision/segmentation"
)

// Mode selects which components look at a frame.
type Mode string

// The tracking modes.
const (
	ModeDetector Mode = "detector"
	ModeColor    Mode = "color"
	ModeBoth     Mode = "both"
)

var modes = []Mode{ModeDetector, ModeColor, ModeBoth}

// ParseMode parses a mode name; the empty string is ModeBoth.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeBoth, nil
	}
	m := Mode(strings.ToLower(s))
	for _, known := range modes {
		if m == known {
			return m, nil
		}
	}
	return "", errors.Errorf("unknown mode %q, expected one of %v", s, modes)
}

func (m Mode) usesDetector() bool { return m == ModeDetector || m == ModeBoth }

func (m Mode) usesColor() bool { return m == ModeColor || m == ModeBoth }

// Config configures a Tracker.
type Config struct {
	Mode Mode
	// Backend names the segmentation backend; empty is the native one.
	Backend   string
	Segmenter *segmentation.ColorSegmenterConfig
	// Draw produces an annotated copy of every frame.
	Draw bool
	// ShowMask blends the color mask into the annotated frame.
	ShowMask bool
	// MinConfidence drops detections scoring below it.
	MinConfidence float64
	// Labels keeps only detections with one of these labels when not empty.
	Labels []string
}

// Validate checks the config without building anything.
func (cfg *Config) Validate() error {
	var err error
	if _, mErr := ParseMode(string(cfg.Mode)); mErr != nil {
		err = multierr.Append(err, mErr)
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		err = multierr.Append(err, errors.Errorf("min_confidence must be between 0.0 and 1.0, got %v", cfg.MinConfidence))
	}
	if cfg.Segmenter != nil {
		err = multierr.Append(err, cfg.Segmenter.Validate())
	}
	return err
}

// Result is what a Tracker found in one frame.
type Result struct {
	Mode  Mode
	Color segmentation.ColorName
	// Records holds the detector records first, then the color records.
	Records    []position.Record
	Detections int
	Regions    int
	// Mask is the color mask, set when ShowMask is on and color segmentation ran.
	Mask *mat.Dense
	// Annotated is set when Draw is on.
	Annotated image.Image
}

// Tracker combines a detector and a color segmenter.
type Tracker struct {
	mu        sync.Mutex
	logger    logging.Logger
	cfg       Config
	mode      Mode
	detector  objectdetection.Detector
	segmenter segmentation.Segmenter
	extractor *position.Extractor
}

// New builds a Tracker. detector may be nil only when the mode never uses it.
func New(cfg *Config, detector objectdetection.Detector, logger logging.Logger) (*Tracker, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewBlankLogger("")
	}
	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	if mode.usesDetector() && detector == nil {
		return nil, errors.Errorf("mode %q needs a detector", mode)
	}
	t := &Tracker{
		logger:    logger,
		cfg:       *cfg,
		mode:      mode,
		extractor: position.NewExtractor(logger.Sublogger("extractor")),
	}
	if detector != nil {
		t.detector, err = objectdetection.Build(nil, detector, objectdetection.Chain(
			objectdetection.NewScoreFilter(cfg.MinConfidence),
			objectdetection.NewLabelFilter(cfg.Labels),
		))
		if err != nil {
			return nil, err
		}
	}
	t.segmenter, err = segmentation.NewSegmenter(cfg.Backend, cfg.Segmenter, logger.Sublogger("segmenter"))
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Mode returns the current mode.
func (t *Tracker) Mode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

// Color returns the current target color.
func (t *Tracker) Color() segmentation.ColorName {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.segmenter.Color()
}

// SetColor changes the target color.
func (t *Tracker) SetColor(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.segmenter.SetColor(name)
}

// NextColor moves the target to the color after the current one in
// segmentation.ColorNames, wrapping around. A custom color moves to the first one.
func (t *Tracker) NextColor() segmentation.ColorName {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := segmentation.ColorNames()
	next := names[0]
	for i, n := range names {
		if n == t.segmenter.Color() {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := t.segmenter.SetColor(string(next)); err != nil {
		// table colors always parse
		t.logger.Errorw("cannot switch color", "color", next, "error", err)
	}
	return t.segmenter.Color()
}

// NextMode cycles detector, color, both, skipping modes that need a detector
// when there is none.
func (t *Tracker) NextMode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := 0
	for i, m := range modes {
		if m == t.mode {
			idx = i
		}
	}
	for range modes {
		idx = (idx + 1) % len(modes)
		if !modes[idx].usesDetector() || t.detector != nil {
			break
		}
	}
	t.mode = modes[idx]
	t.logger.Infof("mode changed to %s", t.mode)
	return t.mode
}

// Process runs the active components over img. An empty frame gives an empty
// result; only a failing detector returns an error.
func (t *Tracker) Process(ctx context.Context, img image.Image) (*Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	res := &Result{Mode: t.mode, Color: t.segmenter.Color(), Records: []position.Record{}}
	if img == nil || img.Bounds().Empty() {
		t.logger.Debug("skipping empty frame")
		return res, nil
	}

	if t.mode.usesDetector() {
		dets, err := t.detector(ctx, img)
		if err != nil {
			return nil, errors.Wrap(err, "object detection failed")
		}
		recs := t.extractor.FromDetections(dets)
		res.Detections = len(recs)
		res.Records = append(res.Records, recs...)
	}
	if t.mode.usesColor() {
		var regions []segmentation.Region
		if t.cfg.ShowMask {
			regions, res.Mask = t.segmenter.SegmentWithMask(img)
		} else {
			regions = t.segmenter.Segment(img)
		}
		recs := t.extractor.FromRegions(regions)
		res.Regions = len(recs)
		res.Records = append(res.Records, recs...)
	}

	if t.cfg.Draw {
		res.Annotated = position.Annotate(img, res.Records, position.AnnotateOptions{
			Header: res.Header(),
			Mask:   res.Mask,
		})
	}
	t.logger.Debugw("processed frame", "mode", res.Mode, "detections", res.Detections, "regions", res.Regions)
	return res, nil
}

// Header is the two line summary drawn on annotated frames.
func (r *Result) Header() []string {
	return []string{
		fmt.Sprintf("Mode: %s | Target Color: %s", r.Mode, strings.ToUpper(string(r.Color))),
		fmt.Sprintf("Detector: %d | Color: %d", r.Detections, r.Regions),
	}
}
