// Package models - The fixed catalog of supported image classifiers and
// their ONNX Runtime backing.
package models

import (
	"fmt"
	"sort"
)

// ID is the unique identifier of a catalog model.
type ID string

const (
	// ResNet18 is the ResNet-18 classifier.
	ResNet18 ID = "resnet18"
	// MobileNetV2 is the MobileNet V2 classifier.
	MobileNetV2 ID = "mobilenet_v2"
	// AlexNet is the AlexNet classifier.
	AlexNet ID = "alexnet"
)

// Spec describes how a catalog model is loaded and fed. All catalog models
// are ImageNet classifiers taking a 1x3xHxW input and producing one logit
// per class.
type Spec struct {
	ID         ID
	File       string
	InputName  string
	OutputName string
	Width      int
	Height     int
	Classes    int
}

// InputLen returns the flat length of the model's input tensor.
func (s Spec) InputLen() int {
	return 3 * s.Width * s.Height
}

var catalog = map[ID]Spec{
	ResNet18: {
		ID:         ResNet18,
		File:       "resnet18.onnx",
		InputName:  "input",
		OutputName: "output",
		Width:      224,
		Height:     224,
		Classes:    1000,
	},
	MobileNetV2: {
		ID:         MobileNetV2,
		File:       "mobilenet_v2.onnx",
		InputName:  "input",
		OutputName: "output",
		Width:      224,
		Height:     224,
		Classes:    1000,
	},
	AlexNet: {
		ID:         AlexNet,
		File:       "alexnet.onnx",
		InputName:  "input",
		OutputName: "output",
		Width:      224,
		Height:     224,
		Classes:    1000,
	},
}

// IDs returns the catalog identifiers in stable order.
func IDs() []ID {
	ids := make([]ID, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Resolve looks up a model id in the catalog. Unknown ids fail with a
// *ModelLoadError before any resource is allocated.
func Resolve(id ID) (Spec, error) {
	spec, ok := catalog[id]
	if !ok {
		return Spec{}, &ModelLoadError{
			ID:  id,
			Err: fmt.Errorf("unknown model id, supported models: %v", IDs()),
		}
	}
	return spec, nil
}

// ModelLoadError is fatal to a run: no inference has happened and no log
// file may be written.
type ModelLoadError struct {
	ID  ID
	Err error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("loading model %q: %v", e.ID, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }
