package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/sync/errgroup"

	"smartwish-backend/internal/supabase"
)

const (
	webpQuality  = 85
	thumbQuality = 75

	thumbWidth  = 200
	thumbHeight = 150

	uploadRetries = 3
)

// Processor turns raw page images into the variant set a published design
// needs: a webp primary, a png fallback and a cropped thumbnail per page,
// plus the cover/grid/carousel preview composites. Every encoded variant
// is uploaded to object storage and its public URL recorded.
type Processor struct {
	storage *supabase.StorageClient
}

func NewProcessor(storage *supabase.StorageClient) *Processor {
	return &Processor{storage: storage}
}

// PageResult describes the uploaded variants of one page.
type PageResult struct {
	PageNumber int
	Width      int
	Height     int

	WebpPath string
	WebpURL  string
	WebpSize int64

	PngPath string
	PngURL  string
	PngSize int64

	ThumbPath string
	ThumbURL  string
}

// Preview is one uploaded composite image.
type Preview struct {
	Kind   string
	Path   string
	URL    string
	Width  int
	Height int
}

type PreviewSet struct {
	Cover    Preview
	Grid     Preview
	Carousel Preview
}

// DecodePages decodes data-URI-encoded raster images into memory. Any
// undecodable page fails the whole batch.
func (p *Processor) DecodePages(dataURIs []string) ([]image.Image, error) {
	pages := make([]image.Image, len(dataURIs))
	for i, uri := range dataURIs {
		du, err := dataurl.DecodeString(uri)
		if err != nil {
			return nil, fmt.Errorf("page %d: invalid data URI: %w", i+1, err)
		}

		img, err := imaging.Decode(bytes.NewReader(du.Data))
		if err != nil {
			return nil, fmt.Errorf("page %d: failed to decode image: %w", i+1, err)
		}
		pages[i] = img
	}
	return pages, nil
}

// ProcessPages encodes and uploads the three variants of every page. All
// pages run concurrently, and the variants within one page upload
// concurrently with each other.
func (p *Processor) ProcessPages(ctx context.Context, designID uuid.UUID, pages []image.Image) ([]PageResult, error) {
	ts := time.Now().UnixMilli()
	results := make([]PageResult, len(pages))

	g, ctx := errgroup.WithContext(ctx)
	for i, page := range pages {
		g.Go(func() error {
			result, err := p.processPage(ctx, designID, ts, i+1, page)
			if err != nil {
				return err
			}
			results[i] = *result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Processor) processPage(ctx context.Context, designID uuid.UUID, ts int64, pageNumber int, page image.Image) (*PageResult, error) {
	bounds := page.Bounds()
	result := &PageResult{
		PageNumber: pageNumber,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
	}

	webpData, err := encodeWebp(page, webpQuality)
	if err != nil {
		return nil, fmt.Errorf("page %d: webp encode failed: %w", pageNumber, err)
	}
	pngData, err := encodePNG(page)
	if err != nil {
		return nil, fmt.Errorf("page %d: png encode failed: %w", pageNumber, err)
	}
	thumbData, err := encodeWebp(Thumbnail(page), thumbQuality)
	if err != nil {
		return nil, fmt.Errorf("page %d: thumbnail encode failed: %w", pageNumber, err)
	}

	result.WebpPath = PagePath(designID, ts, pageNumber, "webp", "webp")
	result.PngPath = PagePath(designID, ts, pageNumber, "png", "png")
	result.ThumbPath = PagePath(designID, ts, pageNumber, "thumb", "webp")
	result.WebpSize = int64(len(webpData))
	result.PngSize = int64(len(pngData))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := p.upload(ctx, result.WebpPath, webpData, "image/webp")
		result.WebpURL = url
		return err
	})
	g.Go(func() error {
		url, err := p.upload(ctx, result.PngPath, pngData, "image/png")
		result.PngURL = url
		return err
	})
	g.Go(func() error {
		url, err := p.upload(ctx, result.ThumbPath, thumbData, "image/webp")
		result.ThumbURL = url
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("page %d: %w", pageNumber, err)
	}

	return result, nil
}

// ProcessPreviews builds and uploads the cover, grid and carousel
// composites. The three uploads run concurrently.
func (p *Processor) ProcessPreviews(ctx context.Context, designID uuid.UUID, pages []image.Image, title string) (*PreviewSet, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to build previews from")
	}

	ts := time.Now().UnixMilli()
	composites := []struct {
		kind string
		img  *image.NRGBA
	}{
		{"cover", BuildCover(pages[0], title)},
		{"grid", BuildGrid(pages)},
		{"carousel", BuildCarousel(pages)},
	}

	set := &PreviewSet{}
	targets := map[string]*Preview{
		"cover":    &set.Cover,
		"grid":     &set.Grid,
		"carousel": &set.Carousel,
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range composites {
		g.Go(func() error {
			data, err := encodeJPEG(c.img, webpQuality)
			if err != nil {
				return fmt.Errorf("%s preview encode failed: %w", c.kind, err)
			}

			path := PreviewPath(designID, ts, c.kind, "jpg")
			url, err := p.upload(ctx, path, data, "image/jpeg")
			if err != nil {
				return fmt.Errorf("%s preview: %w", c.kind, err)
			}

			target := targets[c.kind]
			target.Kind = c.kind
			target.Path = path
			target.URL = url
			bounds := c.img.Bounds()
			target.Width = bounds.Dx()
			target.Height = bounds.Dy()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

func (p *Processor) upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var url string
	err := p.storage.RetryWithBackoff(func() error {
		var err error
		url, err = p.storage.UploadImage(path, data, contentType)
		return err
	}, uploadRetries)
	if err != nil {
		return "", err
	}
	return url, nil
}

// PagePath is the deterministic storage path of one page variant.
func PagePath(designID uuid.UUID, ts int64, page int, variant, ext string) string {
	return fmt.Sprintf("designs/%s/pages/%d_page_%d_%s.%s", designID.String(), ts, page, variant, ext)
}

// PreviewPath is the deterministic storage path of one preview composite.
func PreviewPath(designID uuid.UUID, ts int64, kind, ext string) string {
	return fmt.Sprintf("designs/%s/previews/%d_%s.%s", designID.String(), ts, kind, ext)
}

func encodeWebp(img image.Image, quality float32) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Thumbnail crops-to-fill a page down to 200x150.
func Thumbnail(img image.Image) *image.NRGBA {
	return imaging.Fill(img, thumbWidth, thumbHeight, imaging.Center, imaging.Lanczos)
}
