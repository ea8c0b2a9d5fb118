// Command gesture-raster prints the classifier bitmaps of stored gesture
// drawings, the way the service renders them.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zeusync/gesturecast/internal/core/classify"
	"github.com/zeusync/gesturecast/internal/core/dataset"
	"github.com/zeusync/gesturecast/internal/core/raster"
)

func main() {
	dir := flag.String("dir", "gestures", "directory of <gesture>.yaml files")
	name := flag.String("gesture", "", "gesture to print; all gestures when empty")
	simplify := flag.Float64("simplify", 0, "simplification tolerance in pixels")
	flag.Parse()

	if err := run(*dir, *name, *simplify); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(dir, name string, simplify float64) error {
	store := dataset.NewStore(dir)
	names := []string{name}
	if name == "" {
		var err error
		if names, err = store.Names(); err != nil {
			return err
		}
	}

	canvas := classify.DefaultCanvas()
	canvas.Simplify = simplify
	rasterizer := &raster.Rasterizer{}

	for _, n := range names {
		drawings, err := store.Load(n)
		if err != nil {
			return err
		}
		for i, d := range drawings {
			bmp := canvas.Render(rasterizer, d)
			fmt.Printf("%s #%d: %d points, coverage %.3f\n", n, i, len(d), raster.Coverage(bmp))
			fmt.Println(bmp)
		}
	}
	return nil
}
