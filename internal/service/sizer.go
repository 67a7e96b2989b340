package service

import (
	"math"

	"github.com/mmcdole/mosaic/internal/domain"
)

// fallbackRatio is used for posts whose cover dimensions are unknown
const fallbackRatio = 1.0

// Sizer converts posts into waterfall item heights, in terminal rows.
// A picture of aspect ratio r drawn at column width w takes r*w*CellAspect
// rows; the caption adds CaptionRows below it.
type Sizer struct {
	CellAspect  float64
	CaptionRows int
}

// Size returns the height of post at the given column width
func (s Sizer) Size(post domain.Post, columnWidth float64) float64 {
	if columnWidth <= 0 {
		return 0
	}
	ratio := post.AspectRatio()
	if ratio <= 0 {
		ratio = fallbackRatio
	}
	aspect := s.CellAspect
	if aspect <= 0 {
		aspect = 1
	}
	picture := math.Max(1, math.Ceil(ratio*columnWidth*aspect))
	return picture + float64(s.CaptionRows)
}

// Sizes sizes every post at the given column width
func (s Sizer) Sizes(posts []domain.Post, columnWidth float64) []float64 {
	sizes := make([]float64, len(posts))
	for i, p := range posts {
		sizes[i] = s.Size(p, columnWidth)
	}
	return sizes
}
