package models

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Engine is one loaded model ready for repeated inference calls over a
// fixed representative input.
type Engine interface {
	// Predict runs one forward pass and returns the raw class logits.
	Predict(ctx context.Context) ([]float32, error)
	// Close releases the model's native resources.
	Close() error
}

// LoadOptions configures how a catalog model is loaded.
type LoadOptions struct {
	// ModelDir is the directory holding the ONNX weight files.
	ModelDir string
	// InputPath optionally names an image file to use as the
	// representative input. When empty, a deterministic synthetic tensor
	// is used instead.
	InputPath string
}

// Classifier is an ONNX Runtime backed catalog model with preallocated
// input and output tensors.
type Classifier struct {
	spec    Spec
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

var runtimeOnce sync.Once

// ensureRuntime initializes the ONNX Runtime environment once per process.
// ONNXRUNTIME_SHARED_LIB overrides the default shared library search.
func ensureRuntime() error {
	var err error
	runtimeOnce.Do(func() {
		if libPath := os.Getenv("ONNXRUNTIME_SHARED_LIB"); libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		err = ort.InitializeEnvironment()
	})
	if err != nil {
		return err
	}
	if !ort.IsInitialized() {
		return fmt.Errorf("ONNX Runtime environment is not initialized")
	}
	return nil
}

// Load resolves id against the catalog and creates an ONNX Runtime session
// with preallocated tensors. Loading happens once per run, before the
// benchmark loop.
//
// Arguments:
//   - id: The catalog identifier of the model.
//   - opts: Load options (weight directory, optional input image).
//
// Returns:
//   - *Classifier: The loaded model.
//   - error: A *ModelLoadError on unknown ids, missing weights, or session
//     creation failures.
func Load(id ID, opts LoadOptions) (*Classifier, error) {
	spec, err := Resolve(id)
	if err != nil {
		return nil, err
	}

	modelPath := filepath.Join(opts.ModelDir, spec.File)
	if _, err := os.Stat(modelPath); err != nil {
		return nil, &ModelLoadError{ID: id, Err: fmt.Errorf("missing weights at %s: %w", modelPath, err)}
	}

	data, err := RepresentativeInput(spec, opts.InputPath)
	if err != nil {
		return nil, &ModelLoadError{ID: id, Err: err}
	}

	if err := ensureRuntime(); err != nil {
		return nil, &ModelLoadError{ID: id, Err: err}
	}

	input, err := ort.NewTensor(ort.NewShape(1, 3, int64(spec.Height), int64(spec.Width)), data)
	if err != nil {
		return nil, &ModelLoadError{ID: id, Err: fmt.Errorf("creating input tensor: %w", err)}
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(spec.Classes)))
	if err != nil {
		input.Destroy()
		return nil, &ModelLoadError{ID: id, Err: fmt.Errorf("creating output tensor: %w", err)}
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{spec.InputName},
		[]string{spec.OutputName},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, &ModelLoadError{ID: id, Err: fmt.Errorf("creating session: %w", err)}
	}

	return &Classifier{
		spec:    spec,
		session: session,
		input:   input,
		output:  output,
	}, nil
}

// Spec returns the catalog entry backing this classifier.
func (c *Classifier) Spec() Spec { return c.spec }

// Predict runs one forward pass over the fixed input and returns a copy of
// the class logits.
func (c *Classifier) Predict(ctx context.Context) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.session == nil {
		return nil, fmt.Errorf("classifier %q is closed", c.spec.ID)
	}

	if err := c.session.Run(); err != nil {
		return nil, fmt.Errorf("inference on %q failed: %w", c.spec.ID, err)
	}

	logits := make([]float32, c.spec.Classes)
	copy(logits, c.output.GetData())
	return logits, nil
}

// Close destroys the session and its tensors.
func (c *Classifier) Close() error {
	if c.input != nil {
		c.input.Destroy()
		c.input = nil
	}
	if c.output != nil {
		c.output.Destroy()
		c.output = nil
	}
	if c.session != nil {
		if err := c.session.Destroy(); err != nil {
			return fmt.Errorf("destroying session for %q: %w", c.spec.ID, err)
		}
		c.session = nil
	}
	return nil
}
