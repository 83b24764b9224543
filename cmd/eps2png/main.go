// seehuhn.de/go/eps - import Encapsulated PostScript drawings
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command eps2png renders an Encapsulated PostScript file as a PNG image.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"seehuhn.de/go/eps"
	"seehuhn.de/go/eps/render"
)

var (
	dpiArg    = flag.Float64("dpi", 150, "resolution in dots per inch")
	outArg    = flag.String("o", "", "write the image to `file` (default: input name with .png)")
	verbose   = flag.Bool("v", false, "print warnings and program output")
	maxOpsArg = flag.Int("max-ops", 50_000_000, "abort after executing `n` objects (0 = no limit)")
	bgArg     = flag.String("bg", "white", "background colour: white or transparent")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("eps2png: ")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "eps2png - render an EPS file as a PNG image\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  eps2png [options] <file.eps>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		log.Fatal(err)
	}
}

func run(fname string) error {
	var bg color.Color
	switch *bgArg {
	case "white":
		bg = color.White
	case "transparent":
		// leave the image transparent
	default:
		return fmt.Errorf("invalid background %q", *bgArg)
	}

	in, err := os.Open(fname)
	if err != nil {
		return err
	}
	defer in.Close()

	intp := eps.NewInterpreter()
	intp.MaxOps = *maxOpsArg
	doc := intp.Document()
	if *verbose {
		doc.Log = log.Default()
	}
	err = intp.Execute(in)
	if err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}
	if bbox, ok := intp.BoundingBox(); ok {
		doc.BoundingBox = bbox
	}

	img, err := render.Image(doc, *dpiArg, bg)
	if err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}

	outName := *outArg
	if outName == "" {
		outName = strings.TrimSuffix(fname, filepath.Ext(fname)) + ".png"
	}
	out, err := os.Create(outName)
	if err != nil {
		return err
	}
	err = png.Encode(out, img)
	if err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
