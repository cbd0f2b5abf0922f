package models

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// ImageNet channel statistics used to normalize classifier inputs.
var (
	imagenetMean = [3]float32{0.485, 0.456, 0.406}
	imagenetStd  = [3]float32{0.229, 0.224, 0.225}
)

// syntheticSeed keeps the synthetic input identical across runs so that
// timing differences come from the environment, not the data.
const syntheticSeed = 7

// RepresentativeInput returns the fixed input tensor fed to every inference
// call of a run. When imagePath is empty a deterministic synthetic tensor
// is generated; otherwise the image is decoded, resized, and normalized.
func RepresentativeInput(spec Spec, imagePath string) ([]float32, error) {
	if imagePath == "" {
		return SyntheticInput(spec), nil
	}
	return ImageInput(spec, imagePath)
}

// SyntheticInput generates a deterministic pseudo-random CHW tensor shaped
// for the given spec, standing in for torch.randn over the input shape.
func SyntheticInput(spec Spec) []float32 {
	rng := rand.New(rand.NewSource(syntheticSeed))
	data := make([]float32, spec.InputLen())
	for i := range data {
		data[i] = float32(rng.NormFloat64())
	}
	return data
}

// ImageInput decodes an image file, resizes it to the model resolution, and
// normalizes it into a CHW float32 tensor.
//
// Arguments:
//   - spec: The catalog entry describing the expected input shape.
//   - path: Path to a JPEG or PNG image.
//
// Returns:
//   - []float32: The normalized tensor, length spec.InputLen().
//   - error: An annotated error if the file cannot be read or decoded.
func ImageInput(spec Spec, path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening input image %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding input image %s", path)
	}

	resized := resize.Resize(uint(spec.Width), uint(spec.Height), img, resize.Bilinear)

	data := make([]float32, spec.InputLen())
	plane := spec.Width * spec.Height
	bounds := resized.Bounds()
	for y := 0; y < spec.Height; y++ {
		for x := 0; x < spec.Width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := y*spec.Width + x
			data[idx] = (float32(r)/65535.0 - imagenetMean[0]) / imagenetStd[0]
			data[plane+idx] = (float32(g)/65535.0 - imagenetMean[1]) / imagenetStd[1]
			data[2*plane+idx] = (float32(b)/65535.0 - imagenetMean[2]) / imagenetStd[2]
		}
	}

	return data, nil
}
