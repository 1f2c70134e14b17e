package shaderlab

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const ConsoleFontFile = "fonts/ConsoleFont.ttf"

// Fonts holds the face used for captions and the HUD line.
type Fonts struct {
	Face   font.Face
	Source string
}

func LoadFontFace(data []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	return face, nil
}

// RenderText draws text onto a transparent image sized to fit it.
func RenderText(face font.Face, text string, fg color.Color) *image.RGBA {
	const pad = 2

	metrics := face.Metrics()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil()
	width := font.MeasureString(face, text).Ceil()

	img := image.NewRGBA(image.Rect(0, 0, width+2*pad, lineHeight+2*pad))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(pad, pad+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
	return img
}

// FontsModule loads the console font from the media root. A missing or
// broken font file falls back to the built-in 7x13 face.
type FontsModule struct{}

func (FontsModule) Step() string { return "fonts" }

func (FontsModule) Install(app *App, cmd *Commands) error {
	log := app.Logger()
	fonts := &Fonts{Face: basicfont.Face7x13, Source: "basicfont"}

	assets, ok := Resource[AssetServer](app)
	if ok {
		size := DefaultConfig().FontSize
		if cfg, ok := Resource[Config](app); ok {
			size = cfg.FontSize
		}

		data, err := assets.ReadFile(ConsoleFontFile)
		switch {
		case err != nil:
			log.Debugf("fonts: %v", err)
		default:
			face, err := LoadFontFace(data, size)
			if err != nil {
				log.Warnf("fonts: %s: %v", ConsoleFontFile, err)
				break
			}
			fonts.Face = face
			fonts.Source = ConsoleFontFile
		}
	}

	cmd.AddResources(fonts)
	cmd.OnShutdown("fonts", func() error {
		if fonts.Source == "basicfont" {
			return nil
		}
		return fonts.Face.Close()
	})
	return nil
}
