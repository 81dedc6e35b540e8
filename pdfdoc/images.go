package pdfdoc

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/image/tiff"
)

// PageImage is a raster image extracted from a page, re-encoded into a
// standard format ready to be written to disk or handed to an OCR engine.
type PageImage struct {
	Index  int    // position within the page, 0-based
	Format string // "jpg", "png" or "tiff"
	Width  int
	Height int
	Data   []byte
}

// PageImages extracts the image XObjects of a 0-based page index. Images
// whose encoding cannot be handled are skipped rather than failing the
// page; a page with no images yields an empty slice.
func (r *Reader) PageImages(pageIndex int) ([]PageImage, error) {
	if r.ctx == nil {
		return nil, ErrClosed
	}
	if pageIndex < 0 || pageIndex >= r.ctx.PageCount {
		return nil, fmt.Errorf("page index %d out of range [0..%d)", pageIndex, r.ctx.PageCount)
	}
	if r.ctx.Optimize == nil {
		return nil, nil
	}

	var images []PageImage
	for _, objNr := range pdfcpu.ImageObjNrs(r.ctx, pageIndex+1) {
		entry, ok := r.ctx.Table[objNr]
		if !ok || entry == nil || entry.Free {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}

		img, err := r.extractImage(&sd)
		if err != nil {
			continue
		}
		img.Index = len(images)
		images = append(images, *img)
	}

	return images, nil
}

// extractImage converts a single image stream into a PageImage. JPEG
// streams pass through untouched; everything else is decoded to raw
// samples and re-encoded (PNG, or TIFF for bi-level scans).
func (r *Reader) extractImage(sd *types.StreamDict) (*PageImage, error) {
	width := intEntry(sd, "Width")
	height := intEntry(sd, "Height")
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image missing Width or Height")
	}

	bpc := intEntry(sd, "BitsPerComponent")
	if bpc == 0 {
		bpc = 8
	}

	// DCTDecode streams are JPEG files as-is.
	for _, f := range sd.FilterPipeline {
		if f.Name == "DCTDecode" {
			return &PageImage{Format: "jpg", Width: width, Height: height, Data: sd.Raw}, nil
		}
		if f.Name == "JPXDecode" {
			return nil, fmt.Errorf("JPEG2000 images are not supported")
		}
	}

	if err := sd.Decode(); err != nil {
		return nil, fmt.Errorf("failed to decode image stream: %w", err)
	}

	colorSpace := r.resolveColorSpace(sd.Dict["ColorSpace"])

	var goImg image.Image
	var err error
	switch colorSpace {
	case "DeviceRGB", "CalRGB":
		goImg, err = rgbImage(sd.Content, width, height, bpc)
	case "DeviceCMYK":
		goImg, err = cmykImage(sd.Content, width, height, bpc)
	default:
		// DeviceGray, CalGray, ICCBased and anything unrecognized.
		goImg, err = grayImage(sd.Content, width, height, bpc)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	format := "png"
	if bpc == 1 {
		// Bi-level scans compress well as TIFF and OCR engines take
		// them natively.
		format = "tiff"
		err = tiff.Encode(&buf, goImg, &tiff.Options{Compression: tiff.Deflate})
	} else {
		err = png.Encode(&buf, goImg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &PageImage{Format: format, Width: width, Height: height, Data: buf.Bytes()}, nil
}

// resolveColorSpace reduces a ColorSpace entry to a device color space name.
func (r *Reader) resolveColorSpace(obj types.Object) string {
	if obj == nil {
		return "DeviceGray"
	}
	resolved, err := r.ctx.Dereference(obj)
	if err != nil {
		return "DeviceGray"
	}

	switch v := resolved.(type) {
	case types.Name:
		return v.Value()
	case types.Array:
		if len(v) == 0 {
			break
		}
		name, ok := v[0].(types.Name)
		if !ok {
			break
		}
		switch name.Value() {
		case "Indexed":
			if len(v) > 1 {
				return r.resolveColorSpace(v[1])
			}
		case "ICCBased":
			return "ICCBased"
		default:
			return name.Value()
		}
	}

	return "DeviceGray"
}

func intEntry(sd *types.StreamDict, key string) int {
	if v := sd.IntEntry(key); v != nil {
		return *v
	}
	return 0
}

// grayImage converts grayscale samples to an image.Gray.
func grayImage(data []byte, width, height, bpc int) (*image.Gray, error) {
	goImg := image.NewGray(image.Rect(0, 0, width, height))

	switch bpc {
	case 1:
		bytesPerRow := (width + 7) / 8
		if len(data) < bytesPerRow*height {
			return nil, fmt.Errorf("insufficient data for 1-bit image: got %d, expected %d", len(data), bytesPerRow*height)
		}
		for y := 0; y < height; y++ {
			rowStart := y * bytesPerRow
			for x := 0; x < width; x++ {
				bit := (data[rowStart+x/8] >> (7 - x%8)) & 1
				if bit == 0 {
					goImg.Pix[y*width+x] = 0
				} else {
					goImg.Pix[y*width+x] = 255
				}
			}
		}
	case 4:
		bytesPerRow := (width + 1) / 2
		if len(data) < bytesPerRow*height {
			return nil, fmt.Errorf("insufficient data for 4-bit image: got %d, expected %d", len(data), bytesPerRow*height)
		}
		for y := 0; y < height; y++ {
			rowStart := y * bytesPerRow
			for x := 0; x < width; x++ {
				var nibble byte
				if x%2 == 0 {
					nibble = (data[rowStart+x/2] >> 4) & 0x0F
				} else {
					nibble = data[rowStart+x/2] & 0x0F
				}
				goImg.Pix[y*width+x] = nibble * 17
			}
		}
	case 8:
		if len(data) < width*height {
			return nil, fmt.Errorf("insufficient data: got %d, expected %d", len(data), width*height)
		}
		copy(goImg.Pix, data[:width*height])
	default:
		return nil, fmt.Errorf("unsupported bits per component: %d", bpc)
	}

	return goImg, nil
}

// rgbImage converts 8-bit RGB samples to an image.RGBA.
func rgbImage(data []byte, width, height, bpc int) (*image.RGBA, error) {
	if bpc != 8 {
		return nil, fmt.Errorf("unsupported bits per component for RGB: %d", bpc)
	}
	if len(data) < width*height*3 {
		return nil, fmt.Errorf("insufficient data for RGB image: got %d, expected %d", len(data), width*height*3)
	}

	goImg := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		goImg.Pix[i*4+0] = data[i*3+0]
		goImg.Pix[i*4+1] = data[i*3+1]
		goImg.Pix[i*4+2] = data[i*3+2]
		goImg.Pix[i*4+3] = 255
	}
	return goImg, nil
}

// cmykImage converts 8-bit CMYK samples to an image.RGBA.
func cmykImage(data []byte, width, height, bpc int) (*image.RGBA, error) {
	if bpc != 8 {
		return nil, fmt.Errorf("unsupported bits per component for CMYK: %d", bpc)
	}
	if len(data) < width*height*4 {
		return nil, fmt.Errorf("insufficient data for CMYK image: got %d, expected %d", len(data), width*height*4)
	}

	goImg := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		red, green, blue := color.CMYKToRGB(data[i*4+0], data[i*4+1], data[i*4+2], data[i*4+3])
		goImg.Pix[i*4+0] = red
		goImg.Pix[i*4+1] = green
		goImg.Pix[i*4+2] = blue
		goImg.Pix[i*4+3] = 255
	}
	return goImg, nil
}
