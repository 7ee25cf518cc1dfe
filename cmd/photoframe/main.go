package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/bodgit/photoframe"
	"github.com/bodgit/photoframe/canvas"
	"github.com/bodgit/photoframe/palette"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// newLogger returns the logger for progress messages, they are only shown
// with --verbose.
func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(c.App.ErrWriter)
	}
	return logger
}

func openCache(c *cli.Context) (*photoframe.CacheDB, error) {
	if c.String("cache") == "" {
		return nil, nil
	}
	return photoframe.NewCacheDB(c.String("cache"))
}

func config(c *cli.Context) (photoframe.Config, error) {
	var (
		cfg photoframe.Config
		err error
	)

	if cfg.Orientation, err = canvas.ParseOrientation(c.String("dir")); err != nil {
		return cfg, err
	}
	if cfg.Fit, err = canvas.ParseFitMode(c.String("mode")); err != nil {
		return cfg, err
	}
	if cfg.Dither, err = palette.ParseDither(c.String("dither")); err != nil {
		return cfg, err
	}

	return cfg, nil
}

var conversionFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "dir",
		Usage: "canvas orientation, landscape or portrait (default picked from the image)",
	},
	&cli.StringFlag{
		Name:  "mode",
		Value: "scale",
		Usage: "fit mode, scale to cover the canvas or cut to fit within it",
	},
	&cli.StringFlag{
		Name:  "dither",
		Value: palette.FloydSteinberg.String(),
		Usage: "dithering, none (0) or floyd-steinberg (3)",
	},
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "photoframe"
	app.Usage = "Convert images for 7.3 inch seven colour e-paper photo frames"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "cache",
			EnvVars: []string{"PHOTOFRAME_CACHE"},
			Usage:   "path to conversion cache database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "print progress messages for each folder and file processed and converted",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert an image or a directory of images",
			Description: "Each image is written alongside the original with the extension replaced.",
			ArgsUsage:   "FILE|DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "format",
					Value: photoframe.BMP.String(),
					Usage: "output format, bmp or epd",
				},
				&cli.IntFlag{
					Name:    "workers",
					EnvVars: []string{"PHOTOFRAME_WORKERS"},
					Value:   runtime.NumCPU(),
					Usage:   "number of images converted concurrently",
				},
			}, conversionFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, err := config(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				format, err := photoframe.ParseFormat(c.String("format"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				cache, err := openCache(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				if cache != nil {
					defer cache.Close()
				}

				p := photoframe.New(cfg, cache, newLogger(c))
				p.Format = format
				p.Workers = c.Int("workers")

				if err := p.Run(c.Context, c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "inspect",
			Usage:       "Report dominant colours and panel colour coverage",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Value: 8,
					Usage: "number of dominant colours to report",
				},
			}, conversionFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, err := config(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				f, err := os.Open(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				r, err := photoframe.Inspect(f, cfg, c.Int("colors"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				w := c.App.Writer
				fmt.Fprintf(w, "File:     %s (%s)\n", c.Args().First(), r.Format)
				fmt.Fprintf(w, "Size:     %dx%d\n", r.Width, r.Height)
				fmt.Fprintf(w, "Canvas:   %v\n", r.Target)
				fmt.Fprintln(w, "Dominant:")
				for _, s := range r.Dominant {
					fmt.Fprintf(w, "  #%02x%02x%02x -> %s\n", s.Color.R, s.Color.G, s.Color.B, palette.Names[s.Panel])
				}
				fmt.Fprintln(w, "Coverage:")
				for i, frac := range r.Coverage {
					if frac > 0 {
						fmt.Fprintf(w, "  %-6s %5.1f%%\n", palette.Names[i], frac*100)
					}
				}

				return nil
			},
		},
		{
			Name:  "clear-cache",
			Usage: "Remove every entry from the conversion cache",
			Action: func(c *cli.Context) error {
				cache, err := openCache(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				if cache == nil {
					return cli.Exit("no cache database given", 1)
				}
				defer cache.Close()

				if err := cache.Clear(); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
