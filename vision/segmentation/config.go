package segmentation

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/colortrack/rimage"
	"go.viam.com/colortrack/utils"
)

// Defaults applied to unset ColorSegmenterConfig fields.
const (
	DefaultColor          = ColorRed
	DefaultMinArea        = 500
	DefaultKernelSize     = 5
	DefaultContourEpsilon = 0.5
)

// ColorSegmenterConfig is the user facing configuration of a color segmenter.
type ColorSegmenterConfig struct {
	Color          string   `json:"color,omitempty"`
	MinArea        int      `json:"min_area,omitempty"`
	KernelSize     int      `json:"kernel_size,omitempty"`
	FillGaps       *bool    `json:"fill_gaps,omitempty"`
	ContourEpsilon *float64 `json:"contour_epsilon,omitempty"`
	// Ranges replaces the color table; Color then only labels the regions.
	Ranges []RangeConfig `json:"ranges,omitempty"`
	// DetectColor is a #RRGGBB color whose hue band is segmented.
	DetectColor  string  `json:"detect_color,omitempty"`
	HueTolerance float64 `json:"hue_tolerance_pct,omitempty"`
}

// RangeConfig is an inclusive HSV box written as [h, s, v] triples on the 8-bit scale.
type RangeConfig struct {
	Lower [3]int `json:"lower"`
	Upper [3]int `json:"upper"`
}

var channelMax = [3]int{180, 255, 255}

func (rc RangeConfig) validate(i int) error {
	var err error
	for ch, name := range []string{"hue", "saturation", "value"} {
		lo, hi := rc.Lower[ch], rc.Upper[ch]
		if lo < 0 || hi > channelMax[ch] {
			err = multierr.Append(err, errors.Errorf("ranges[%d]: %s must be within [0, %d]", i, name, channelMax[ch]))
		}
		if lo > hi {
			err = multierr.Append(err, errors.Errorf("ranges[%d]: %s lower bound %d is above upper bound %d", i, name, lo, hi))
		}
	}
	return err
}

func (rc RangeConfig) toRange() HSVRange {
	return HSVRange{
		Lower: rimage.HSV8{H: uint8(rc.Lower[0]), S: uint8(rc.Lower[1]), V: uint8(rc.Lower[2])},
		Upper: rimage.HSV8{H: uint8(rc.Upper[0]), S: uint8(rc.Upper[1]), V: uint8(rc.Upper[2])},
	}
}

// Validate reports every problem in the config at once.
func (cfg *ColorSegmenterConfig) Validate() error {
	var err error
	if cfg.MinArea < 0 {
		err = multierr.Append(err, errors.Errorf("min_area must be at least 1, got %d", cfg.MinArea))
	}
	if cfg.KernelSize < 0 || (cfg.KernelSize > 0 && cfg.KernelSize%2 == 0) {
		err = multierr.Append(err, errors.Errorf("kernel_size must be a positive odd number, got %d", cfg.KernelSize))
	}
	if cfg.ContourEpsilon != nil && *cfg.ContourEpsilon < 0 {
		err = multierr.Append(err, errors.Errorf("contour_epsilon cannot be negative, got %v", *cfg.ContourEpsilon))
	}
	switch {
	case len(cfg.Ranges) != 0 && cfg.DetectColor != "":
		err = multierr.Append(err, errors.New("ranges and detect_color cannot both be set"))
	case len(cfg.Ranges) != 0:
		if cfg.Color != "" && !utils.ValidNameRegex.MatchString(cfg.Color) {
			err = multierr.Append(err, utils.ErrInvalidName(cfg.Color))
		}
		for i, rc := range cfg.Ranges {
			err = multierr.Append(err, rc.validate(i))
		}
	case cfg.DetectColor != "":
		c, cErr := rimage.NewColorFromHex(cfg.DetectColor)
		if cErr != nil {
			err = multierr.Append(err, errors.Wrap(cErr, "detect_color"))
			break
		}
		if _, hErr := HueRanges(c, cfg.HueTolerance); hErr != nil {
			err = multierr.Append(err, hErr)
		}
	case cfg.Color != "":
		if _, pErr := ParseColorName(cfg.Color); pErr != nil {
			err = multierr.Append(err, pErr)
		}
	}
	return err
}

// Params are the resolved settings a segmentation backend runs with.
type Params struct {
	Color  ColorName
	Ranges ColorRanges
	// Custom is set when Ranges do not come from the color table.
	Custom         bool
	MinArea        int
	KernelSize     int
	FillGaps       bool
	ContourEpsilon float64
}

// Resolve validates the config and fills in defaults. A nil config resolves to all defaults.
func (cfg *ColorSegmenterConfig) Resolve() (*Params, error) {
	if cfg == nil {
		cfg = &ColorSegmenterConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Params{
		Color:          DefaultColor,
		MinArea:        DefaultMinArea,
		KernelSize:     DefaultKernelSize,
		FillGaps:       true,
		ContourEpsilon: DefaultContourEpsilon,
	}
	if cfg.MinArea > 0 {
		p.MinArea = cfg.MinArea
	}
	if cfg.KernelSize > 0 {
		p.KernelSize = cfg.KernelSize
	}
	if cfg.FillGaps != nil {
		p.FillGaps = *cfg.FillGaps
	}
	if cfg.ContourEpsilon != nil {
		p.ContourEpsilon = *cfg.ContourEpsilon
	}

	switch {
	case len(cfg.Ranges) != 0:
		p.Custom = true
		p.Color = "custom"
		if cfg.Color != "" {
			p.Color = ColorName(cfg.Color)
		}
		for _, rc := range cfg.Ranges {
			p.Ranges = append(p.Ranges, rc.toRange())
		}
	case cfg.DetectColor != "":
		c, err := rimage.NewColorFromHex(cfg.DetectColor)
		if err != nil {
			return nil, err
		}
		if p.Ranges, err = HueRanges(c, cfg.HueTolerance); err != nil {
			return nil, err
		}
		p.Custom = true
		p.Color = ColorName(c.Hex())
		if cfg.Color != "" {
			p.Color = ColorName(cfg.Color)
		}
	default:
		if cfg.Color != "" {
			name, err := ParseColorName(cfg.Color)
			if err != nil {
				return nil, err
			}
			p.Color = name
		}
		var err error
		if p.Ranges, err = RangesForColor(p.Color); err != nil {
			return nil, err
		}
	}
	return p, nil
}
