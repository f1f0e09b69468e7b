// Package cli contains the colortrack command line.
package cli

import (
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/colortrack/vision/segmentation"
	"go.viam.com/colortrack/vision/tracker"
)

const (
	// Flags.
	debugFlag = "debug"

	generalFlagImage    = "image"
	generalFlagConfig   = "config"
	generalFlagColor    = "color"
	generalFlagBackend  = "backend"
	generalFlagOut      = "out"
	generalFlagMaxWidth = "max-width"

	detectFlagMinArea       = "min-area"
	detectFlagMode          = "mode"
	detectFlagDetections    = "detections"
	detectFlagDetector      = "detector"
	detectFlagThreshold     = "threshold"
	detectFlagMinConfidence = "min-confidence"
	detectFlagLabels        = "labels"
	detectFlagDraw          = "draw"
	detectFlagShowMask      = "show-mask"
	detectFlagFormat        = "format"

	schemaFlagSegmenter = "segmenter"

	colorsFlagHex       = "hex"
	colorsFlagTolerance = "tolerance"

	formatText  = "text"
	formatTable = "table"
	formatJSON  = "json"
)

var (
	imageFlag = &cli.StringFlag{
		Name:     generalFlagImage,
		Aliases:  []string{"i"},
		Required: true,
		Usage:    "read the frame from `FILE` (png or jpeg)",
	}
	configFlag = &cli.StringFlag{
		Name:    generalFlagConfig,
		Aliases: []string{"c"},
		Usage:   "load configuration from `FILE`; flags override its values",
	}
	colorFlag = &cli.StringFlag{
		Name:  generalFlagColor,
		Usage: "target color, one of " + colorNameList(),
	}
	backendFlag = &cli.StringFlag{
		Name:  generalFlagBackend,
		Usage: "segmentation backend (native, or opencv when built with the opencv tag)",
	}
	maxWidthFlag = &cli.IntFlag{
		Name:  generalFlagMaxWidth,
		Usage: "scale frames wider than this many pixels down before processing",
	}
)

var app = &cli.App{
	Name:            "colortrack",
	Usage:           "find colored objects and detections in images and report their positions",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:  "colors",
			Usage: "list the color table, or the hue band derived from a reference color",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  colorsFlagHex,
					Usage: "derive ranges from this #rrggbb color instead of listing the table",
				},
				&cli.Float64Flag{
					Name:  colorsFlagTolerance,
					Value: 0.1,
					Usage: "hue tolerance as a fraction of the hue circle, used with --" + colorsFlagHex,
				},
			},
			Action: ColorsAction,
		},
		{
			Name:      "detect",
			Usage:     "find objects in an image and print their positions",
			UsageText: "colortrack detect --image FILE [other options]",
			Flags: []cli.Flag{
				imageFlag,
				configFlag,
				colorFlag,
				backendFlag,
				maxWidthFlag,
				&cli.IntFlag{
					Name:  detectFlagMinArea,
					Usage: "drop color regions smaller than this many pixels",
				},
				&cli.StringFlag{
					Name:  detectFlagMode,
					Usage: "which components run: " + modeList(),
				},
				&cli.StringFlag{
					Name:  detectFlagDetections,
					Usage: "read precomputed model detections from `FILE` (JSON)",
				},
				&cli.StringFlag{
					Name:  detectFlagDetector,
					Usage: "detector type when no detections file is given (simple)",
				},
				&cli.Float64Flag{
					Name:  detectFlagThreshold,
					Usage: "luminance threshold of the simple detector",
				},
				&cli.Float64Flag{
					Name:  detectFlagMinConfidence,
					Usage: "drop detections with a lower confidence",
				},
				&cli.StringSliceFlag{
					Name:  detectFlagLabels,
					Usage: "keep only detections with these labels",
				},
				&cli.BoolFlag{
					Name:  detectFlagDraw,
					Usage: "write the annotated frame to --" + generalFlagOut,
				},
				&cli.BoolFlag{
					Name:  detectFlagShowMask,
					Usage: "blend the color mask into the annotated frame",
				},
				&cli.StringFlag{
					Name:  generalFlagOut,
					Usage: "annotated image `FILE` (png or jpeg)",
				},
				&cli.StringFlag{
					Name:  detectFlagFormat,
					Value: formatText,
					Usage: "output format: text, table or json",
				},
			},
			Action: DetectAction,
		},
		{
			Name:      "mask",
			Usage:     "write the cleaned color mask of an image",
			UsageText: "colortrack mask --image FILE --color COLOR --out FILE",
			Flags: []cli.Flag{
				imageFlag,
				configFlag,
				colorFlag,
				backendFlag,
				maxWidthFlag,
				&cli.StringFlag{
					Name:     generalFlagOut,
					Required: true,
					Usage:    "mask image `FILE` (png or jpeg)",
				},
			},
			Action: MaskAction,
		},
		{
			Name:  "schema",
			Usage: "print the JSON schema of the config file",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  schemaFlagSegmenter,
					Usage: "print the schema of the segmenter attributes instead",
				},
			},
			Action: SchemaAction,
		},
	},
}

func colorNameList() string {
	return strings.Join(lo.Map(segmentation.ColorNames(), func(n segmentation.ColorName, _ int) string {
		return string(n)
	}), ", ")
}

func modeList() string {
	return string(tracker.ModeDetector) + ", " + string(tracker.ModeColor) + " or " + string(tracker.ModeBoth)
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
