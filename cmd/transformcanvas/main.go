/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"transformcanvas/internal/config"
	"transformcanvas/internal/crash"
	"transformcanvas/internal/export"
	"transformcanvas/internal/geom"
	applog "transformcanvas/internal/log"
	"transformcanvas/internal/raster"
	"transformcanvas/internal/scene"
	"transformcanvas/internal/telemetry"
	"transformcanvas/internal/ui"
	"transformcanvas/internal/version"
)

func usage() {
	fmt.Println("Transform Canvas — interactive 2D transform surface")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  transformcanvas version|-v|--version       Show version")
	fmt.Println("  transformcanvas demo                       Launch the desktop demo (build with -tags fyne)")
	fmt.Println("  transformcanvas export [flags] <out>       Render the demo scene headlessly to <out>")
	fmt.Println()
	fmt.Println("Export flags:")
	fmt.Println("  -width/-height   viewport size in device units (default 800x600)")
	fmt.Println("  -zoom            zoom value (default 1)")
	fmt.Println("  -rotation        view rotation in degrees, counterclockwise")
	fmt.Println("  -format          png, svg or pdf; defaults to the file extension")
}

// noopSurface satisfies scene.Surface for headless snapshot rendering; the
// exporters read the staged geometry, not surface objects.
type noopSurface struct{ next scene.Handle }

func (s *noopSurface) Create(scene.Kind, scene.DeviceGeometry, scene.Style) (scene.Handle, error) {
	s.next++
	return s.next, nil
}
func (s *noopSurface) Update(scene.Handle, scene.DeviceGeometry) error { return nil }
func (s *noopSurface) Delete(scene.Handle) error                      { return nil }

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	defer crash.Recover("")

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Transform Canvas")
			fmt.Println(version.String())
			return
		case "demo", "ui":
			cfg, err := config.Load()
			if err != nil {
				l.Warn("config load failed, using defaults", slog.Any("err", err))
				cfg = config.Defaults()
			}
			if err := ui.Run(cfg); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "export":
			if err := runExport(args[2:], l); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func runExport(args []string, l *slog.Logger) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	width := fs.Float64("width", 800, "viewport width in device units")
	height := fs.Float64("height", 600, "viewport height in device units")
	zoom := fs.Float64("zoom", 1, "zoom value")
	rotation := fs.Float64("rotation", 0, "view rotation in degrees, counterclockwise")
	dx := fs.Float64("dx", 0, "origin offset x in device units")
	dy := fs.Float64("dy", 0, "origin offset y in device units")
	format := fs.String("format", "", "png, svg or pdf; defaults to the file extension")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("export requires exactly one output path")
	}
	out := fs.Arg(0)
	f := strings.ToLower(*format)
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	}

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	origin, err := geom.ParseAnchor(cfg.Canvas.Origin)
	if err != nil {
		origin = geom.Anchor{Kind: geom.AnchorCenter}
	}
	dir, err := scene.ParseDirection(cfg.Canvas.Direction)
	if err != nil {
		dir = scene.DirSE
	}

	v := scene.New(&noopSurface{}, raster.NewCache(raster.DefaultBucket, 0), scene.Options{
		ScaleBase:  cfg.Canvas.ScaleBase,
		ScaleRatio: cfg.Canvas.ScaleRatio,
		Direction:  dir,
		Origin:     origin,
		Adapter:    scene.AdapterOptions{Segments: cfg.Canvas.OvalSegments},
	})
	v.SetOmitDraw(true) // headless: stage geometry only, no surface traffic
	v.Resize(*width, *height)
	ui.BuildDemoScene(v)
	v.SetZoom(*zoom)
	// CLI rotation is counterclockwise-positive; the matrix angle is
	// clockwise on a y-down device
	v.SetRotation(-*rotation * math.Pi / 180)
	v.SetOffset(geom.Pt{X: *dx, Y: *dy})

	snap := v.Snapshot()
	telemetry.Event("export", map[string]any{"format": f})
	l.Info("exporting snapshot",
		slog.String("format", f),
		slog.String("out", out),
		slog.Int("objects", len(snap)))

	switch f {
	case "png":
		return export.WritePNG(out, snap, export.PNGOptions{Width: int(*width), Height: int(*height)})
	case "svg":
		return export.WriteSVG(out, snap, export.SVGOptions{Width: *width, Height: *height})
	case "pdf":
		return export.WritePDF(out, snap, export.PDFOptions{Width: *width, Height: *height, Title: "Transform Canvas snapshot"})
	}
	return fmt.Errorf("unknown export format %q", f)
}
