package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	pb "github.com/setanarut/poissonblend"
)

// optionsFile mirrors poissonblend.Options in TOML.
type optionsFile struct {
	Tolerance     float64 `toml:"tolerance"`
	MaxIterations int     `toml:"max_iterations"`
	Workers       int     `toml:"workers"`
	QueueSize     int     `toml:"queue_size"`
	Mixed         bool    `toml:"mixed"`
	Verbose       bool    `toml:"verbose"`
}

type selectionFile struct {
	Points [][2]float64 `toml:"points"`
}

// LoadOptions reads options from a TOML file. Keys missing from the file keep their defaults.
func LoadOptions(path string) (pb.Options, error) {
	f := optionsFile(pb.DefaultOptions())
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return pb.DefaultOptions(), fmt.Errorf("read options %s: %w", path, err)
	}
	return pb.Options(f), nil
}

// SaveOptions writes opt as TOML.
func SaveOptions(opt pb.Options, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(optionsFile(opt)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// LoadSelection reads a closed outline from a TOML file of the form
//
//	points = [[x0, y0], [x1, y1], ...]
func LoadSelection(path string) (pb.Path, error) {
	var f selectionFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("read selection %s: %w", path, err)
	}
	out := make(pb.Path, 0, len(f.Points)+1)
	for _, p := range f.Points {
		out = append(out, pb.Point{X: p[0], Y: p[1]})
	}
	if len(out) > 0 && out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	return out, nil
}

// DominantColor returns the most prominent color of the opaque pixels of img.
func DominantColor(img image.Image) colorful.Color {
	c, _ := colorful.MakeColor(dominantcolor.Find(img))
	return c
}

// ReportPatch logs the dominant colors of a blended patch and of the target region it
// replaced. After a good blend of a flat source they are close.
func ReportPatch(patch image.Image, target image.Image, at image.Point) {
	region := image.NewNRGBA(patch.Bounds())
	draw.Draw(region, region.Bounds(), target, at, draw.Src)
	pc := DominantColor(patch)
	tc := DominantColor(region)
	log.Printf("patch %s target %s distance %.4f\n", pc.Hex(), tc.Hex(), pc.DistanceLab(tc))
}

// Thumbnail scales img to fit in a size×size box.
func Thumbnail(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	if size <= 0 || b.Empty() {
		return image.NewNRGBA(image.Rectangle{})
	}
	scale := float64(size) / float64(max(b.Dx(), b.Dy()))
	w := max(1, int(float64(b.Dx())*scale))
	h := max(1, int(float64(b.Dy())*scale))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Solid returns a uniform w×h image.
func Solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func ReadImage(path string) image.Image {
	file, err := os.Open(path)
	if err != nil {
		panic(err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		panic(err)
	}
	return img
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
