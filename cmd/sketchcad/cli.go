package main

import (
	"bufio"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/sketchcad/internal/errors"
	"github.com/hpungsan/sketchcad/internal/ops"
)

// errExit is returned by the exit command to stop the command loop.
var errExit = stderrors.New("exit")

// newCommandApp creates the per-line command dispatcher bound to one session.
// Every geometry command takes positional numbers, so flag parsing is skipped
// to let negative values through.
func newCommandApp(s *ops.Session, stdout, stderr io.Writer) *cli.App {
	app := &cli.App{
		Name:        "sketchcad",
		Usage:       "2D sketch and 3D primitive commands",
		HideVersion: true,
		Writer:      stdout,
		ErrWriter:   stderr,
		Commands: []*cli.Command{
			sketchPointCmd(s),
			sketchLineCmd(s),
			sketchCircleCmd(s),
			sketchListCmd(s),
			sketchClearCmd(s),
			undoCmd(s),
			redoCmd(s),
			historyCmd(s),
			historyClearCmd(s),
			cubeCmd(s),
			sphereCmd(s),
			cubeDivCmd(s),
			sphereDivCmd(s),
			saveCmd(s),
			exportDXFCmd(s),
			importDXFCmd(s),
			inspectCmd(s),
			versionCmd(),
			exitCmd(),
		},
	}
	// Disable default exit error handler so errors reach the command loop
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	app.Setup()
	return app
}

func sketchPointCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:            "sketch_point",
		Usage:           "Add a point",
		ArgsUsage:       "<x> <y>",
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			v, err := parseNumbers(c, "x", "y")
			if err != nil {
				return outputError(err)
			}
			out, err := ops.AddPoint(s, ops.AddPointInput{X: v[0], Y: v[1]})
			return result(c, out, err)
		},
	}
}

func sketchLineCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:            "sketch_line",
		Usage:           "Add a line",
		ArgsUsage:       "<x1> <y1> <x2> <y2>",
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			v, err := parseNumbers(c, "x1", "y1", "x2", "y2")
			if err != nil {
				return outputError(err)
			}
			out, err := ops.AddLine(s, ops.AddLineInput{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]})
			return result(c, out, err)
		},
	}
}

func sketchCircleCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:            "sketch_circle",
		Usage:           "Add a circle",
		ArgsUsage:       "<x> <y> <radius>",
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			v, err := parseNumbers(c, "x", "y", "radius")
			if err != nil {
				return outputError(err)
			}
			out, err := ops.AddCircle(s, ops.AddCircleInput{X: v[0], Y: v[1], R: v[2]})
			return result(c, out, err)
		},
	}
}

func sketchListCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:  "sketch_list",
		Usage: "List sketch entities",
		Action: func(c *cli.Context) error {
			if err := noArgs(c); err != nil {
				return outputError(err)
			}
			list := ops.List(s)
			if len(list.Entities) == 0 {
				fmt.Fprintln(c.App.Writer, "Sketch is empty")
				return nil
			}
			for _, e := range list.Entities {
				fmt.Fprintf(c.App.Writer, "%d: %s\n", e.Index, e.Description)
			}
			return nil
		},
	}
}

func sketchClearCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:  "sketch_clear",
		Usage: "Clear the sketch",
		Action: func(c *cli.Context) error {
			if err := noArgs(c); err != nil {
				return outputError(err)
			}
			out, err := ops.Clear(s)
			return result(c, out, err)
		},
	}
}

func undoCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:  "undo",
		Usage: "Undo the last sketch change",
		Action: func(c *cli.Context) error {
			out, err := ops.Undo(s)
			return result(c, out, err)
		},
	}
}

func redoCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:  "redo",
		Usage: "Redo the last undone sketch change",
		Action: func(c *cli.Context) error {
			out, err := ops.Redo(s)
			return result(c, out, err)
		},
	}
}

func historyCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List undo and redo snapshots, newest first",
		Action: func(c *cli.Context) error {
			return outputJSON(c.App.Writer, ops.History(s))
		},
	}
}

func historyClearCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:  "history_clear",
		Usage: "Drop undo and redo history",
		Action: func(c *cli.Context) error {
			return outputJSON(c.App.Writer, ops.ClearHistory(s))
		},
	}
}

func cubeCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:            "cube",
		Aliases:         []string{"c"},
		Usage:           "Replace the shape with a cube",
		ArgsUsage:       "<size> [divisions]",
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			args := c.Args().Slice()
			if len(args) < 1 || len(args) > 2 {
				return outputError(usage(c))
			}
			size, err := parseFloat("size", args[0])
			if err != nil {
				return outputError(err)
			}
			input := ops.CreateCubeInput{Size: size}
			if len(args) == 2 {
				d, err := parseInt("divisions", args[1])
				if err != nil {
					return outputError(err)
				}
				input.Divisions = &d
			}
			out, err := ops.CreateCube(s, input)
			return result(c, out, err)
		},
	}
}

func sphereCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:            "sphere",
		Aliases:         []string{"sp"},
		Usage:           "Replace the shape with a sphere",
		ArgsUsage:       "<radius> [divisions | <lat_divisions> <lon_divisions>]",
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			args := c.Args().Slice()
			if len(args) < 1 || len(args) > 3 {
				return outputError(usage(c))
			}
			radius, err := parseFloat("radius", args[0])
			if err != nil {
				return outputError(err)
			}
			input := ops.CreateSphereInput{Radius: radius}
			switch len(args) {
			case 2:
				d, err := parseInt("divisions", args[1])
				if err != nil {
					return outputError(err)
				}
				input.Divisions = &d
			case 3:
				lat, err := parseInt("lat_divisions", args[1])
				if err != nil {
					return outputError(err)
				}
				lon, err := parseInt("lon_divisions", args[2])
				if err != nil {
					return outputError(err)
				}
				input.LatDivisions, input.LonDivisions = &lat, &lon
			}
			out, err := ops.CreateSphere(s, input)
			return result(c, out, err)
		},
	}
}

func cubeDivCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:      "cube_div",
		Usage:     "Set the divisions used by later cubes",
		ArgsUsage: "<count>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(usage(c))
			}
			d, err := parseInt("count", c.Args().First())
			if err != nil {
				return outputError(err)
			}
			out, err := ops.SetCubeDivisions(s, ops.SetCubeDivisionsInput{Divisions: d})
			return result(c, out, err)
		},
	}
}

func sphereDivCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:      "sphere_div",
		Usage:     "Set the latitude and longitude divisions used by later spheres",
		ArgsUsage: "<lat_divisions> <lon_divisions>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return outputError(usage(c))
			}
			lat, err := parseInt("lat_divisions", c.Args().Get(0))
			if err != nil {
				return outputError(err)
			}
			lon, err := parseInt("lon_divisions", c.Args().Get(1))
			if err != nil {
				return outputError(err)
			}
			out, err := ops.SetSphereDivisions(s, ops.SetSphereDivisionsInput{LatDivisions: lat, LonDivisions: lon})
			return result(c, out, err)
		},
	}
}

func saveCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:      "save",
		Aliases:   []string{"s"},
		Usage:     "Write the shape as an ASCII STL file",
		ArgsUsage: "<file.stl> [precision]",
		Action: func(c *cli.Context) error {
			args := c.Args().Slice()
			if len(args) < 1 || len(args) > 2 {
				return outputError(usage(c))
			}
			input := ops.SaveMeshInput{Path: args[0]}
			if len(args) == 2 {
				p, err := parseInt("precision", args[1])
				if err != nil {
					return outputError(err)
				}
				input.Precision = &p
			}
			out, err := ops.SaveMesh(s, input)
			return result(c, out, err)
		},
	}
}

func exportDXFCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:      "export_dxf",
		Usage:     "Export the sketch to a DXF file",
		ArgsUsage: "<file.dxf>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(usage(c))
			}
			out, err := ops.ExportDXF(s, ops.ExportDXFInput{Path: c.Args().First()})
			return result(c, out, err)
		},
	}
}

func importDXFCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:      "import_dxf",
		Usage:     "Append the entities of a DXF file to the sketch",
		ArgsUsage: "<file.dxf>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(usage(c))
			}
			out, err := ops.ImportDXF(s, ops.ImportDXFInput{Path: c.Args().First()})
			return result(c, out, err)
		},
	}
}

func inspectCmd(s *ops.Session) *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Show sketch, history and shape state",
		Action: func(c *cli.Context) error {
			out, err := ops.Inspect(s)
			return result(c, out, err)
		},
	}
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Show software version",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "sketchcad %s\n", Version)
			return nil
		},
	}
}

func exitCmd() *cli.Command {
	return &cli.Command{
		Name:    "exit",
		Aliases: []string{"e", "quit"},
		Usage:   "Exit the program",
		Action: func(c *cli.Context) error {
			return errExit
		},
	}
}

// runLines feeds each line of r to app. Blank lines and lines starting with
// '#' are skipped. With stopOnError the first failing line ends the run and
// its error is returned, prefixed with name and line number; otherwise errors
// are printed to app.ErrWriter and the loop continues. An exit command ends
// the loop without error. prompt, when non-empty, is written before each read.
func runLines(app *cli.App, r io.Reader, name, prompt string, stopOnError bool) error {
	sc := bufio.NewScanner(r)
	line := 0
	for {
		if prompt != "" {
			fmt.Fprint(app.Writer, prompt)
		}
		if !sc.Scan() {
			break
		}
		line++

		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		err := dispatch(app, fields)
		if stderrors.Is(err, errExit) {
			return nil
		}
		if err == nil {
			continue
		}
		if stopOnError {
			return fmt.Errorf("%s:%d: %s", name, line, err.Error())
		}
		fmt.Fprintf(app.ErrWriter, "error: %v\n", err)
	}
	if err := sc.Err(); err != nil {
		return errors.NewIO("read", name, err)
	}
	return nil
}

// dispatch runs one tokenized command line.
func dispatch(app *cli.App, fields []string) error {
	if app.Command(fields[0]) == nil {
		return outputError(errors.NewInvalidRequest(fmt.Sprintf("unknown command %q (type 'help' for a list)", fields[0])))
	}
	return app.Run(append([]string{app.Name}, fields...))
}

// Helper functions

// result writes a successful operation output or formats its error.
func result(c *cli.Context, out any, err error) error {
	if err != nil {
		return outputError(err)
	}
	return outputJSON(c.App.Writer, out)
}

// outputJSON marshals v to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats err for the command line.
func outputError(err error) error {
	var cadErr *errors.CadError
	if stderrors.As(err, &cadErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", cadErr.Code, cadErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

func usage(c *cli.Context) error {
	return errors.NewInvalidRequest(fmt.Sprintf("usage: %s %s", c.Command.Name, c.Command.ArgsUsage))
}

func noArgs(c *cli.Context) error {
	if c.NArg() != 0 {
		return usage(c)
	}
	return nil
}

// parseNumbers parses exactly one positional number per name.
func parseNumbers(c *cli.Context, names ...string) ([]float64, error) {
	args := c.Args().Slice()
	if len(args) != len(names) {
		return nil, usage(c)
	}
	out := make([]float64, len(names))
	for i, name := range names {
		v, err := parseFloat(name, args[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("%s: %q is not a number", name, s))
	}
	return v, nil
}

func parseInt(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("%s: %q is not an integer", name, s))
	}
	return v, nil
}
