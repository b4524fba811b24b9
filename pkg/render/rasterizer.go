// Package render rasterizes the receipt form into a PNG image.
package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // logo files may be JPEG
	"image/png"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Row is one labelled input of the form as it appears on screen
type Row struct {
	Label string
	Value string
	Error string
}

// View is a snapshot of everything visible inside the form
type View struct {
	HotelName     string
	Logo          image.Image
	Title         string
	Rows          []Row
	SubmitLabel   string
	SubmitVisible bool
}

const (
	fontSize     = 13
	imageWidth   = 420
	padding      = 24
	logoMaxW     = 200
	logoMaxH     = 80
	lineHeight   = 18
	inputHeight  = 26
	rowSpacing   = 10
	buttonHeight = 34
)

var (
	colorBackground = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorText       = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorBorder     = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
	colorInput      = color.RGBA{0xf7, 0xf7, 0xf7, 0xff}
	colorError      = color.RGBA{0xff, 0x00, 0x00, 0xff}
	colorButton     = color.RGBA{0x25, 0xd3, 0x66, 0xff}
	colorButtonText = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// Rasterizer draws a View into a PNG bitmap. It is safe for concurrent use.
type Rasterizer struct {
	font *opentype.Font
}

// NewRasterizer creates a rasterizer using the embedded Go Regular font,
// which covers the Latin-1 accents of names and labels.
func NewRasterizer() *Rasterizer {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		// goregular.TTF is compiled in; this only fails if the package is broken
		panic(fmt.Sprintf("render: parsing embedded font: %v", err))
	}
	return &Rasterizer{font: f}
}

// Rasterize renders v and returns the encoded PNG
func (r *Rasterizer) Rasterize(ctx context.Context, v View) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// faces cache glyphs and must not be shared between goroutines
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating font face: %w", err)
	}
	defer face.Close()

	img := image.NewRGBA(image.Rect(0, 0, imageWidth, height(v)))
	c := &canvas{img: img, face: face}
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)
	strokeRect(img, img.Bounds().Inset(4), colorBorder)

	y := padding
	y = c.drawHeader(v, y)

	for _, row := range v.Rows {
		c.text(padding, y+lineHeight-5, row.Label, colorText)
		y += lineHeight

		box := image.Rect(padding, y, imageWidth-padding, y+inputHeight)
		draw.Draw(img, box, image.NewUniform(colorInput), image.Point{}, draw.Src)
		strokeRect(img, box, colorBorder)
		c.text(padding+6, y+inputHeight-8, row.Value, colorText)
		y += inputHeight

		if row.Error != "" {
			c.text(padding, y+lineHeight-4, row.Error, colorError)
			y += lineHeight
		}
		y += rowSpacing
	}

	if v.SubmitVisible {
		btn := image.Rect(padding, y, imageWidth-padding, y+buttonHeight)
		draw.Draw(img, btn, image.NewUniform(colorButton), image.Point{}, draw.Src)
		w := font.MeasureString(c.face, v.SubmitLabel).Ceil()
		c.text(btn.Min.X+(btn.Dx()-w)/2, y+buttonHeight/2+4, v.SubmitLabel, colorButtonText)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("error encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

func height(v View) int {
	h := padding + headerHeight(v)
	for _, row := range v.Rows {
		h += lineHeight + inputHeight + rowSpacing
		if row.Error != "" {
			h += lineHeight
		}
	}
	if v.SubmitVisible {
		h += buttonHeight
	}
	return h + padding
}

func headerHeight(v View) int {
	h := logoMaxH + rowSpacing
	if v.Title != "" {
		h += lineHeight * 2
	}
	return h
}

func (c *canvas) drawHeader(v View, y int) int {
	if v.Logo != nil {
		area := fitRect(v.Logo.Bounds(), logoMaxW, logoMaxH)
		area = area.Add(image.Pt((imageWidth-area.Dx())/2, y))
		draw.CatmullRom.Scale(c.img, area, v.Logo, v.Logo.Bounds(), draw.Over, nil)
	} else if v.HotelName != "" {
		w := font.MeasureString(c.face, v.HotelName).Ceil()
		c.text((imageWidth-w)/2, y+logoMaxH/2+4, v.HotelName, colorText)
	}
	y += logoMaxH + rowSpacing

	if v.Title != "" {
		w := font.MeasureString(c.face, v.Title).Ceil()
		c.text((imageWidth-w)/2, y+lineHeight, v.Title, colorText)
		y += lineHeight * 2
	}
	return y
}

type canvas struct {
	img  *image.RGBA
	face font.Face
}

func (c *canvas) text(x, baseline int, s string, col color.Color) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: c.face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

// fitRect scales src down to fit within maxW x maxH, keeping its aspect ratio
func fitRect(src image.Rectangle, maxW, maxH int) image.Rectangle {
	w, h := src.Dx(), src.Dy()
	if w <= 0 || h <= 0 {
		return image.Rect(0, 0, 0, 0)
	}
	if w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if h > maxH {
		w = w * maxH / h
		h = maxH
	}
	return image.Rect(0, 0, w, h)
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// DataURL encodes a PNG as a data: URL
func DataURL(pngData []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}

// LoadLogo decodes a PNG or JPEG logo from disk
func LoadLogo(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening logo: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("error decoding logo %s: %w", path, err)
	}
	return img, nil
}
