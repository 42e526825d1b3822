package lotto

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	CardWidth  = 720
	CardHeight = 260

	ballRadius = 34.0
	ballStep   = 84.0
)

// Card draws the result card onto a new gg context. The caller owns the
// returned context and must Close it.
func Card(d Draw) (*gg.Context, error) {
	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load regular font: %w", err)
	}
	bold, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}

	dc := gg.NewContext(CardWidth, CardHeight)
	dc.ClearWithColor(gg.Hex("#0f172a"))

	glow := gg.NewRadialGradientBrush(CardWidth/2, CardHeight/2, 0, CardWidth/2).
		AddColorStop(0, gg.RGBA2(0.13, 0.83, 0.93, 0.25)).
		AddColorStop(1, gg.RGBA2(0.13, 0.83, 0.93, 0))
	dc.SetFillBrush(glow)
	dc.DrawRectangle(0, 0, CardWidth, CardHeight)
	if err := dc.Fill(); err != nil {
		dc.Close()
		return nil, err
	}

	dc.SetFont(bold.Face(28))
	dc.SetHexColor("#ffffff")
	dc.DrawStringAnchored("This is the one!", CardWidth/2, 44, 0.5, 0.5)

	// six balls, then a plus sign and the bonus
	x := (CardWidth - 7*ballStep) / 2
	y := float64(CardHeight) / 2
	for _, n := range d.Numbers {
		if err := drawBall(dc, bold, x, y, n, BallColor(n)); err != nil {
			dc.Close()
			return nil, err
		}
		x += ballStep
	}
	dc.SetFont(bold.Face(32))
	dc.SetHexColor("#ffffff")
	dc.DrawStringAnchored("+", x, y, 0.5, 0.5)
	x += ballStep
	if err := drawBall(dc, bold, x, y, d.Bonus, ColorBonus); err != nil {
		dc.Close()
		return nil, err
	}

	dc.SetFont(regular.Face(16))
	dc.SetHexColor("#facc15")
	dc.DrawStringAnchored("Play responsibly.", CardWidth/2, CardHeight-28, 0.5, 0.5)
	return dc, nil
}

func drawBall(dc *gg.Context, font *text.FontSource, x, y float64, n int, hex string) error {
	dc.SetHexColor(hex)
	dc.DrawCircle(x, y, ballRadius)
	if err := dc.Fill(); err != nil {
		return err
	}

	shine := gg.NewRadialGradientBrush(x-ballRadius*0.4, y-ballRadius*0.4, 0, ballRadius).
		AddColorStop(0, gg.RGBA2(1, 1, 1, 0.4)).
		AddColorStop(0.5, gg.RGBA2(1, 1, 1, 0))
	dc.SetFillBrush(shine)
	dc.DrawCircle(x, y, ballRadius)
	if err := dc.Fill(); err != nil {
		return err
	}

	dc.SetHexColor("#ffffff")
	dc.SetLineWidth(2)
	dc.DrawCircle(x, y, ballRadius)
	if err := dc.Stroke(); err != nil {
		return err
	}

	dc.SetFont(font.Face(22))
	dc.DrawStringAnchored(fmt.Sprintf("%d", n), x, y, 0.5, 0.5)
	return nil
}

// SaveCard renders the card and writes it as a PNG file.
func SaveCard(d Draw, path string) error {
	dc, err := Card(d)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save card %s: %w", path, err)
	}
	return nil
}

// EncodeCard renders the card as PNG into w.
func EncodeCard(d Draw, w io.Writer) error {
	dc, err := Card(d)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}
