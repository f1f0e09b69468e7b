package cli

import (
	"encoding/json"
	"image"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/colortrack/config"
	"go.viam.com/colortrack/logging"
	"go.viam.com/colortrack/rimage"
	"go.viam.com/colortrack/vision/position"
	"go.viam.com/colortrack/vision/segmentation"
	"go.viam.com/colortrack/vision/tracker"
)

// loadConfig reads the --config file when given and applies the flags that
// were set on top of it.
func loadConfig(c *cli.Context, logger logging.Logger) (*config.Config, error) {
	cfg := &config.Config{}
	if path := c.String(generalFlagConfig); path != "" {
		var err error
		if cfg, err = config.Read(path, logger); err != nil {
			return nil, err
		}
	}
	config.ApplyLogLevel(logger, c.Bool(debugFlag), cfg)

	setAttr := func(key string, val interface{}) {
		if cfg.Segmenter == nil {
			cfg.Segmenter = config.AttributeMap{}
		}
		cfg.Segmenter[key] = val
	}
	if c.IsSet(generalFlagColor) {
		setAttr("color", c.String(generalFlagColor))
	}
	if c.IsSet(detectFlagMinArea) {
		setAttr("min_area", c.Int(detectFlagMinArea))
	}
	if c.IsSet(generalFlagBackend) {
		cfg.Backend = c.String(generalFlagBackend)
	}
	if c.IsSet(generalFlagMaxWidth) {
		cfg.MaxWidth = c.Int(generalFlagMaxWidth)
	}
	if c.IsSet(detectFlagMode) {
		cfg.Mode = c.String(detectFlagMode)
	}
	if c.IsSet(detectFlagMinConfidence) {
		cfg.MinConfidence = c.Float64(detectFlagMinConfidence)
	}
	if c.IsSet(detectFlagLabels) {
		cfg.Labels = c.StringSlice(detectFlagLabels)
	}
	if c.IsSet(detectFlagDraw) {
		cfg.Draw = c.Bool(detectFlagDraw)
	}
	if c.IsSet(detectFlagShowMask) {
		cfg.ShowMask = c.Bool(detectFlagShowMask)
	}
	switch {
	case c.IsSet(detectFlagDetections):
		// a path given on the command line is relative to the working directory
		cfg.Detector = &config.DetectorConfig{Type: config.DetectorTypeFile, Path: c.String(detectFlagDetections)}
		cfg.ConfigFilePath = ""
	case c.IsSet(detectFlagDetector):
		cfg.Detector = &config.DetectorConfig{Type: c.String(detectFlagDetector)}
	}
	if c.IsSet(detectFlagThreshold) {
		if cfg.Detector == nil || cfg.Detector.Type != config.DetectorTypeSimple {
			return nil, errors.Errorf("--%s needs --%s %s", detectFlagThreshold, detectFlagDetector, config.DetectorTypeSimple)
		}
		cfg.Detector.Threshold = c.Float64(detectFlagThreshold)
	}
	if cfg.Mode == "" && cfg.Detector == nil {
		cfg.Mode = string(tracker.ModeColor)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFrame reads the --image file and applies max_width.
func readFrame(c *cli.Context, cfg *config.Config, logger logging.Logger) (image.Image, error) {
	img, err := rimage.NewImageFromFile(c.String(generalFlagImage))
	if err != nil {
		return nil, err
	}
	resized := rimage.ResizeToMaxWidth(img, cfg.MaxWidth)
	if resized != img {
		logger.Debugw("resized frame", "from", img.Bounds().Size(), "to", resized.Bounds().Size())
		if cfg.Detector != nil && cfg.Detector.Type == config.DetectorTypeFile {
			logger.Warn("detections read from a file are not scaled with the frame")
		}
	}
	return resized, nil
}

// ColorsAction is the corresponding Action for 'colors'.
func ColorsAction(c *cli.Context) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Color", "Lower (H,S,V)", "Upper (H,S,V)"})

	if hex := c.String(colorsFlagHex); hex != "" {
		col, err := rimage.NewColorFromHex(hex)
		if err != nil {
			return err
		}
		ranges, err := segmentation.HueRanges(col, c.Float64(colorsFlagTolerance))
		if err != nil {
			return err
		}
		for _, r := range ranges {
			t.AppendRow(table.Row{col.Hex(), r.Lower.String(), r.Upper.String()})
		}
		printf(c.App.Writer, "%s", t.Render())
		return nil
	}

	for _, name := range segmentation.ColorNames() {
		ranges, err := segmentation.RangesForColor(name)
		if err != nil {
			return err
		}
		for _, r := range ranges {
			t.AppendRow(table.Row{string(name), r.Lower.String(), r.Upper.String()})
		}
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// DetectAction is the corresponding Action for 'detect'.
func DetectAction(c *cli.Context) error {
	logger := logging.NewWriterLogger("colortrack", c.App.ErrWriter)
	cfg, err := loadConfig(c, logger)
	if err != nil {
		return err
	}
	out := c.String(generalFlagOut)
	if cfg.Draw && out == "" {
		return errors.Errorf("--%s needs --%s", detectFlagDraw, generalFlagOut)
	}
	format := c.String(detectFlagFormat)
	if format != formatText && format != formatTable && format != formatJSON {
		return errors.Errorf("unknown format %q, expected text, table or json", format)
	}

	img, err := readFrame(c, cfg, logger)
	if err != nil {
		return err
	}
	detector, err := cfg.NewDetector()
	if err != nil {
		return err
	}
	tc, err := cfg.TrackerConfig()
	if err != nil {
		return err
	}
	tr, err := tracker.New(tc, detector, logger)
	if err != nil {
		return err
	}
	res, err := tr.Process(c.Context, img)
	if err != nil {
		return err
	}

	switch format {
	case formatJSON:
		buf, err := json.MarshalIndent(res.Records, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshal records")
		}
		printf(c.App.Writer, "%s", buf)
	case formatTable:
		printf(c.App.Writer, "%s", res.Header()[0])
		printf(c.App.Writer, "%s", position.Table(res.Records))
	default:
		for _, line := range res.Header() {
			printf(c.App.Writer, "%s", line)
		}
		if len(res.Records) == 0 {
			printf(c.App.Writer, "no objects found")
		}
		for _, r := range res.Records {
			printf(c.App.Writer, "%s", r.String())
		}
	}

	if res.Annotated != nil {
		if err := rimage.WriteImageToFile(out, res.Annotated); err != nil {
			return err
		}
		logger.Infof("wrote annotated frame to %s", out)
	} else if out != "" {
		warningf(c.App.ErrWriter, "--%s is ignored without --%s", generalFlagOut, detectFlagDraw)
	}
	return nil
}

// MaskAction is the corresponding Action for 'mask'.
func MaskAction(c *cli.Context) error {
	logger := logging.NewWriterLogger("colortrack", c.App.ErrWriter)
	cfg, err := loadConfig(c, logger)
	if err != nil {
		return err
	}
	segCfg, err := cfg.SegmenterConfig()
	if err != nil {
		return err
	}
	seg, err := segmentation.NewSegmenter(cfg.Backend, segCfg, logger)
	if err != nil {
		return err
	}
	img, err := readFrame(c, cfg, logger)
	if err != nil {
		return err
	}
	mask := seg.Mask(img)
	out := c.String(generalFlagOut)
	if err := rimage.WriteImageToFile(out, rimage.MaskToGray(mask)); err != nil {
		return err
	}
	printf(c.App.Writer, "%s mask: %d foreground pixels written to %s",
		seg.Color(), rimage.CountNonZero(mask), out)
	return nil
}

// SchemaAction is the corresponding Action for 'schema'.
func SchemaAction(c *cli.Context) error {
	schema := config.Schema()
	if c.Bool(schemaFlagSegmenter) {
		schema = config.SegmenterSchema()
	}
	buf, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal schema")
	}
	printf(c.App.Writer, "%s", buf)
	return nil
}
