// Package cli contains the anchorfix command line.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	flagScene        = "scene"
	flagAnchor       = "anchor"
	flagSubject      = "subject"
	flagFrameStart   = "frame-start"
	flagFrameEnd     = "frame-end"
	flagAxes         = "axes"
	flagKeepRotation = "keep-rotation"
	flagOut          = "out"
	flagKeys         = "keys"
	flagTable        = "table"
	flagPlot         = "plot"
	flagDebug        = "debug"
	flagQuiet        = "quiet"
	flagLogLevel     = "log-level"
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "anchorfix",
		Usage:           "remove an anchor's motion from an animated object",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:    flagQuiet,
				Aliases: []string{"q"},
				Usage:   "only print warnings, errors and requested output",
			},
			&cli.StringFlag{
				Name:    flagLogLevel,
				Usage:   "log `LEVEL`, one of debug, info, warn or error",
				Value:   "info",
				EnvVars: []string{"ANCHORFIX_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "fix",
				Usage:     "keep the subject where it was relative to the anchor at the start frame",
				UsageText: "anchorfix fix --scene <file> --anchor <name> --subject <name> --frame-end <frame> [other options]",
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:     flagScene,
						Aliases:  []string{"s"},
						Usage:    "scene `FILE` to read, JSON with ${ENV} substitution",
						Required: true,
					},
					&cli.StringFlag{
						Name:     flagAnchor,
						Aliases:  []string{"a"},
						Usage:    "`NAME` of the object whose motion is removed",
						Required: true,
					},
					&cli.StringFlag{
						Name:  flagSubject,
						Usage: "`NAME` of the object to correct, defaults to the scene's selection",
					},
					&cli.IntFlag{
						Name:  flagFrameStart,
						Usage: "reference `FRAME`, defaults to the scene's current frame",
					},
					&cli.IntFlag{
						Name:     flagFrameEnd,
						Usage:    "last `FRAME` to correct",
						Required: true,
					},
					&cli.StringFlag{
						Name:  flagAxes,
						Usage: "world `AXES` to correct, any of x, y and z, or none",
						Value: "xyz",
					},
					&cli.BoolFlag{
						Name:  flagKeepRotation,
						Usage: "correct translation only, keeping the subject's world rotation",
					},
					&cli.PathFlag{
						Name:    flagOut,
						Aliases: []string{"o"},
						Usage:   "write the corrected scene to `FILE`",
					},
					&cli.PathFlag{
						Name:  flagKeys,
						Usage: "write the inserted keyframes as JSON to `FILE`",
					},
					&cli.BoolFlag{
						Name:  flagTable,
						Usage: "print a per-frame table of the correction",
					},
					&cli.PathFlag{
						Name:  flagPlot,
						Usage: "plot the trajectory before and after to `FILE` (.png, .svg or .pdf)",
					},
				},
				Action: FixAction,
			},
		},
	}
}
