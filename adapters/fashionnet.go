package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
	"github.com/FrenchMajesty/wardrobe-vision/internal/fashionnet"
	"github.com/FrenchMajesty/wardrobe-vision/internal/imaging"
	"github.com/FrenchMajesty/wardrobe-vision/taxonomy"
)

type netState int

const (
	netUninitialized netState = iota
	netInitializing
	netReady
	netFailed
)

const (
	defaultWeightsFile = "fashionnet.gob"
	trainBatchSize     = 64
)

// LocalNetClassifier classifies images with an in-process convolutional
// network over the ten garment classes. The network is initialized lazily
// on first use: saved weights are loaded when present, otherwise a fresh
// random network is built so the classifier still answers (poorly) before
// any training has happened.
//
// Initialization happens at most once. Callers that arrive while another
// goroutine is still initializing receive wardrobe.ErrNotReady rather
// than blocking, so the orchestrator's retry can pick up the result.
type LocalNetClassifier struct {
	// ModelDir holds the weights file and the training data files.
	ModelDir string

	mu    sync.RWMutex
	state netState
	net   *fashionnet.Network
}

var _ wardrobe.ImageClassifier = (*LocalNetClassifier)(nil)
var _ wardrobe.Trainer = (*LocalNetClassifier)(nil)

// NewLocalNetClassifier creates a classifier storing its weights and
// training data under modelDir.
func NewLocalNetClassifier(modelDir string) *LocalNetClassifier {
	return &LocalNetClassifier{ModelDir: modelDir}
}

func (l *LocalNetClassifier) weightsPath() string {
	return filepath.Join(l.ModelDir, defaultWeightsFile)
}

// ensureReady transitions the classifier to Ready on first call. It
// returns wardrobe.ErrNotReady while initialization is in flight on
// another goroutine.
func (l *LocalNetClassifier) ensureReady() error {
	l.mu.RLock()
	state := l.state
	l.mu.RUnlock()

	switch state {
	case netReady:
		return nil
	case netInitializing:
		return wardrobe.ErrNotReady
	case netFailed:
		return fmt.Errorf("network initialization previously failed")
	}

	l.mu.Lock()
	if l.state != netUninitialized {
		state := l.state
		l.mu.Unlock()
		if state == netReady {
			return nil
		}
		if state == netInitializing {
			return wardrobe.ErrNotReady
		}
		return fmt.Errorf("network initialization previously failed")
	}
	l.state = netInitializing
	l.mu.Unlock()

	net, err := l.initNetwork()

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = netFailed
		return fmt.Errorf("failed to initialize network: %w", err)
	}
	l.net = net
	l.state = netReady
	return nil
}

func (l *LocalNetClassifier) initNetwork() (*fashionnet.Network, error) {
	path := l.weightsPath()
	if _, err := os.Stat(path); err == nil {
		return fashionnet.Load(path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat weights file %s: %w", path, err)
	}
	return fashionnet.New(), nil
}

// Classify decodes the image to a 28x28 grayscale tensor and returns the
// network's prediction with the runner-up classes as alternates.
func (l *LocalNetClassifier) Classify(ctx context.Context, image []byte, fileName string) (*wardrobe.Result, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}
	if err := l.ensureReady(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(image)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", fileName, err)
	}
	input := imaging.GrayTensor(img, fashionnet.InputSize)

	// The read lock is held for the whole inference so Train's write lock
	// cannot mutate the weights mid-Predict. Concurrent inferences still
	// run in parallel.
	l.mu.RLock()
	probs, err := l.net.Predict(input)
	l.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("inference failed for %s: %w", fileName, err)
	}

	ranked := rankClasses(probs)
	top := ranked[0]
	label := fashionnet.Labels[top]

	result := &wardrobe.Result{
		PredictedLabel: label,
		Confidence:     probs[top],
		Category:       taxonomy.NormalizeCategory(label),
		Subcategory:    taxonomy.NormalizeSubcategory(label, taxonomy.NormalizeCategory(label)),
		Reasoning:      fmt.Sprintf("local network predicted %q with confidence %.2f", label, probs[top]),
	}
	for _, cls := range ranked {
		if len(result.Alternates) == 3 {
			break
		}
		altLabel := fashionnet.Labels[cls]
		result.Alternates = append(result.Alternates, wardrobe.Prediction{
			Label:      altLabel,
			Confidence: probs[cls],
			Category:   taxonomy.NormalizeCategory(altLabel),
		})
	}
	return result, nil
}

// rankClasses orders class indexes by descending probability, breaking
// ties by class index so output is deterministic.
func rankClasses(probs []float64) []int {
	idx := make([]int, len(probs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if probs[idx[a]] != probs[idx[b]] {
			return probs[idx[a]] > probs[idx[b]]
		}
		return idx[a] < idx[b]
	})
	return idx
}

// Train loads the training set from ModelDir, fits the network for the
// given number of epochs and persists the updated weights. Inference is
// blocked for the duration.
func (l *LocalNetClassifier) Train(ctx context.Context, epochs int) error {
	if err := l.ensureReady(); err != nil {
		return err
	}

	ds, err := fashionnet.LoadDataset(l.ModelDir)
	if err != nil {
		return fmt.Errorf("failed to load training data: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.net.Train(ctx, ds, epochs, trainBatchSize); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	if err := l.net.Save(l.weightsPath()); err != nil {
		return fmt.Errorf("failed to persist trained weights: %w", err)
	}
	return nil
}

// describeState is used by tests and diagnostics.
func (l *LocalNetClassifier) describeState() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch l.state {
	case netReady:
		return "ready"
	case netInitializing:
		return "initializing"
	case netFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}
