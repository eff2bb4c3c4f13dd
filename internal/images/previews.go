package images

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	coverWidth  = 400
	coverHeight = 300

	gridTileWidth  = 200
	gridTileHeight = 150

	carouselTileWidth  = 150
	carouselTileHeight = 112
	carouselMaxWidth   = 800

	coverBandHeight = 46
	coverTitleMax   = 52
)

// BuildCover renders the first page at 400x300 with a semi-transparent
// band along the bottom carrying the (truncated) design title.
func BuildCover(page image.Image, title string) *image.NRGBA {
	cover := imaging.Fill(page, coverWidth, coverHeight, imaging.Center, imaging.Lanczos)

	band := image.Rect(0, coverHeight-coverBandHeight, coverWidth, coverHeight)
	draw.Draw(cover, band, &image.Uniform{color.NRGBA{0, 0, 0, 150}}, image.Point{}, draw.Over)

	drawer := &font.Drawer{
		Dst:  cover,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(12, coverHeight-coverBandHeight/2+4),
	}
	drawer.DrawString(truncateTitle(title, coverTitleMax))

	return cover
}

// BuildGrid tiles up to four pages into a 2x2 400x300 composite. Missing
// slots reuse the first page.
func BuildGrid(pages []image.Image) *image.NRGBA {
	grid := imaging.New(coverWidth, coverHeight, color.NRGBA{255, 255, 255, 255})

	positions := []image.Point{
		{0, 0},
		{gridTileWidth, 0},
		{0, gridTileHeight},
		{gridTileWidth, gridTileHeight},
	}

	for i, pos := range positions {
		src := pages[0]
		if i < len(pages) {
			src = pages[i]
		}
		tile := imaging.Fill(src, gridTileWidth, gridTileHeight, imaging.Center, imaging.Lanczos)
		grid = imaging.Paste(grid, tile, pos)
	}

	return grid
}

// BuildCarousel lays all pages out horizontally at 150x112 each, capped
// at 800px total width.
func BuildCarousel(pages []image.Image) *image.NRGBA {
	maxTiles := carouselMaxWidth / carouselTileWidth
	count := len(pages)
	if count > maxTiles {
		count = maxTiles
	}

	carousel := imaging.New(count*carouselTileWidth, carouselTileHeight, color.NRGBA{255, 255, 255, 255})
	for i := 0; i < count; i++ {
		tile := imaging.Fill(pages[i], carouselTileWidth, carouselTileHeight, imaging.Center, imaging.Lanczos)
		carousel = imaging.Paste(carousel, tile, image.Pt(i*carouselTileWidth, 0))
	}

	return carousel
}

func truncateTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max-3]) + "..."
}
