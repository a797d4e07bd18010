package cropper

import (
	"image"
	"math"

	"github.com/menta2k/cropr/pkg/types"
)

const (
	// Portrait crops include the shoulders and keep the face in the
	// upper third of the frame.
	portraitFaceScale   = 3.5
	portraitHeightRatio = 1.4167 // 850/600 output ratio
	portraitHeadroom    = 0.15

	// Square and circle crops are tighter with a slight upward bias.
	squareFaceScale = 3.0
	squareHeadroom  = 0.10

	portraitRatioW = 600
	portraitRatioH = 850
)

// HeadshotCrop derives the crop rectangle for a detected face. The rectangle
// is centered on the face, sized as a multiple of the face width and shifted
// upward for headroom, then adjusted to stay within the image bounds.
func HeadshotCrop(imageWidth, imageHeight int, face types.Box, mode types.AspectMode) image.Rectangle {
	cx, cy := face.Center()

	var cropW, cropH, offset int
	if mode == types.Portrait {
		cropW = int(math.Round(float64(face.Width) * portraitFaceScale))
		cropH = int(math.Round(float64(cropW) * portraitHeightRatio))
		offset = -int(math.Round(float64(cropH) * portraitHeadroom))
	} else {
		cropW = int(math.Round(float64(face.Width) * squareFaceScale))
		cropH = cropW
		offset = -int(math.Round(float64(cropH) * squareHeadroom))
	}

	left := cx - cropW/2
	top := cy - cropH/2 + offset
	right := left + cropW
	bottom := top + cropH

	// An overflowing side translates the rectangle back inside instead of
	// clipping it. Sides are handled in order: left, top, right, bottom.
	// When the nominal crop exceeds the image it shrinks to fit.
	if left < 0 {
		right = min(right-left, imageWidth)
		left = 0
	}
	if top < 0 {
		bottom = min(bottom-top, imageHeight)
		top = 0
	}
	if right > imageWidth {
		left = max(0, left-(right-imageWidth))
		right = imageWidth
	}
	if bottom > imageHeight {
		top = max(0, top-(bottom-imageHeight))
		bottom = imageHeight
	}

	return image.Rect(left, top, right, bottom)
}

// CenterCrop derives the fallback rectangle used when no face is found. It
// selects the largest centered region matching the target aspect ratio.
func CenterCrop(imageWidth, imageHeight int, mode types.AspectMode) image.Rectangle {
	if mode == types.Portrait {
		if imageWidth*portraitRatioH > imageHeight*portraitRatioW {
			// Image is wider than the target, crop the sides.
			newWidth := imageHeight * portraitRatioW / portraitRatioH
			left := (imageWidth - newWidth) / 2
			return image.Rect(left, 0, left+newWidth, imageHeight)
		}
		// Image is taller than the target, crop top and bottom.
		newHeight := imageWidth * portraitRatioH / portraitRatioW
		top := (imageHeight - newHeight) / 2
		return image.Rect(0, top, imageWidth, top+newHeight)
	}

	if imageWidth > imageHeight {
		left := (imageWidth - imageHeight) / 2
		return image.Rect(left, 0, left+imageHeight, imageHeight)
	}
	top := (imageHeight - imageWidth) / 2
	return image.Rect(0, top, imageWidth, top+imageWidth)
}

// OutputDimensions returns the final pixel size of an encoded headshot for
// the given aspect mode and base size.
func OutputDimensions(mode types.AspectMode, size int) (int, int) {
	if mode == types.Portrait {
		return size, int(math.Round(float64(size) * portraitHeightRatio))
	}
	return size, size
}
