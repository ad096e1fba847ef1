package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"runtime"
	"sort"

	"github.com/bodgit/epdframe"
	"github.com/bodgit/epdframe/frame"
	"github.com/disintegration/imaging"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newConfig(c *cli.Context) (frame.Config, error) {
	cfg := frame.DefaultConfig()

	rotation, err := frame.ParseRotation(c.String("rotate"))
	if err != nil {
		return cfg, err
	}
	cfg.Rotation = rotation

	palette, err := frame.ParsePalette(c.String("palette"))
	if err != nil {
		return cfg, err
	}
	cfg.Palette = palette

	return cfg, nil
}

func newConverter(c *cli.Context) (*epdframe.Converter, func(), error) {
	cfg, err := newConfig(c)
	if err != nil {
		return nil, nil, err
	}

	enc, err := frame.New(cfg)
	if err != nil {
		return nil, nil, err
	}

	var db *epdframe.FrameDB
	closer := func() {}
	if file := c.String("db"); file != "" {
		if db, err = epdframe.NewFrameDB(file); err != nil {
			return nil, nil, err
		}
		closer = func() { db.Close() }
	}

	return epdframe.New(enc, db, newLogger(c)), closer, nil
}

func refresh(command string) error {
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func encode(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	m, closer, err := newConverter(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer()

	in, out := c.Args().Get(0), c.Args().Get(1)
	if err := m.ConvertFile(in, out); err != nil {
		return cli.Exit(err, 1)
	}

	if c.Bool("remove-input") {
		if err := os.Remove(in); err != nil {
			return cli.Exit(err, 1)
		}
	}

	if command := c.String("refresh"); command != "" {
		if err := refresh(command); err != nil {
			return cli.Exit(fmt.Errorf("refresh: %w", err), 1)
		}
	}

	return nil
}

func batch(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	m, closer, err := newConverter(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer()

	if err := m.Scan(context.Background(), c.Args().First(), c.Int("workers")); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func preview(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	cfg, err := newConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	f, err := os.Open(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	pm, err := frame.Decode(f, cfg)
	if err != nil {
		return cli.Exit(err, 1)
	}

	var out = imaging.Clone(pm)
	if c.Bool("landscape") {
		out = cfg.Rotation.Landscape(pm)
	}

	if err := imaging.Save(out, c.Args().Get(1)); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func inspect(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	m, closer, err := newConverter(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer()

	img, err := imaging.Open(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Errorf("%w: %w", frame.ErrDecode, err), 1)
	}

	r, err := m.Analyze(img, c.Int("colors"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	orientation := "portrait"
	if r.Landscape {
		orientation = "landscape, rotated " + m.Encoder().Config().Rotation.String()
	}
	fmt.Printf("Size: %dx%d (%s)\n", r.Width, r.Height, orientation)

	colors := make([]frame.PanelColor, 0, len(r.Counts))
	for pc := range r.Counts {
		colors = append(colors, pc)
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i] < colors[j] })

	total := r.Width * r.Height
	for _, pc := range colors {
		fmt.Printf("%-6s %6d %5.1f%%\n", pc, r.Counts[pc], float64(r.Counts[pc])*100/float64(total))
	}

	for _, s := range r.Dominant {
		fmt.Printf("#%02X%02X%02X -> %s\n", s.Color.R, s.Color.G, s.Color.B, s.Panel)
	}

	return nil
}

func pattern(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	m, closer, err := newConverter(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer()

	img, err := epdframe.Pattern(c.Args().Get(0), m.Encoder().Config())
	if err != nil {
		return cli.Exit(err, 1)
	}

	b, err := m.ConvertImage(img)
	if err != nil {
		return cli.Exit(err, 1)
	}

	out := c.Args().Get(1)
	if err := os.WriteFile(out, b, 0o644); err != nil {
		os.Remove(out)
		return cli.Exit(err, 1)
	}

	return nil
}

func openCache(c *cli.Context) (*epdframe.FrameDB, error) {
	file := c.String("db")
	if file == "" {
		return nil, errors.New("no cache database configured, use --db")
	}
	return epdframe.NewFrameDB(file)
}

func cacheStats(c *cli.Context) error {
	db, err := openCache(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer db.Close()

	n, err := db.Len()
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Printf("%d cached frames\n", n)

	return nil
}

func cachePurge(c *cli.Context) error {
	db, err := openCache(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer db.Close()

	n, err := db.Purge()
	if err != nil {
		return cli.Exit(err, 1)
	}
	newLogger(c).Printf("Removed %d cached frames\n", n)

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "epdframe"
	app.Usage = "Four color e-paper frame encoder"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"EPDFRAME_DB"},
			Usage:   "path to frame cache database",
		},
		&cli.StringFlag{
			Name:    "rotate",
			EnvVars: []string{"EPDFRAME_ROTATE"},
			Value:   frame.Clockwise.String(),
			Usage:   "rotation applied to landscape images (cw or ccw)",
		},
		&cli.StringFlag{
			Name:    "palette",
			EnvVars: []string{"EPDFRAME_PALETTE"},
			Value:   frame.DefaultPalette().String(),
			Usage:   "palette colors in tie-break order",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "encode",
			Usage:     "Encode an image into a panel frame",
			ArgsUsage: "IMAGE FRAME",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "refresh",
					Usage: "shell command run after the frame is written",
				},
				&cli.BoolFlag{
					Name:  "remove-input",
					Usage: "delete the image once the frame is written",
				},
			},
			Action: encode,
		},
		{
			Name:      "batch",
			Usage:     "Encode every image below a directory",
			ArgsUsage: "DIRECTORY",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Value: runtime.NumCPU(),
					Usage: "number of images encoded concurrently",
				},
			},
			Action: batch,
		},
		{
			Name:      "preview",
			Usage:     "Render a panel frame as an image",
			ArgsUsage: "FRAME IMAGE",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "landscape",
					Usage: "undo the rotation applied to landscape images",
				},
			},
			Action: preview,
		},
		{
			Name:      "inspect",
			Usage:     "Show how an image maps onto the panel colors",
			ArgsUsage: "IMAGE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Value: 8,
					Usage: "number of dominant colors to report",
				},
			},
			Action: inspect,
		},
		{
			Name:      "pattern",
			Usage:     "Write a test pattern frame (clear, stripes, checker)",
			ArgsUsage: "PATTERN FRAME",
			Action:    pattern,
		},
		{
			Name:  "cache",
			Usage: "Manage the frame cache",
			Subcommands: []*cli.Command{
				{
					Name:   "stats",
					Usage:  "Show the number of cached frames",
					Action: cacheStats,
				},
				{
					Name:   "purge",
					Usage:  "Remove all cached frames",
					Action: cachePurge,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
