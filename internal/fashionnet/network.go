package fashionnet

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"

	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

const (
	flattenedSize = 128 * 3 * 3 // after three conv+pool blocks on 28x28
	denseSize     = 625
)

// Dropout rates per block, applied during training only.
var dropoutRates = [4]float64{0.2, 0.2, 0.2, 0.55}

// Network is a fixed-architecture convolutional net: three conv+pool+dropout
// blocks feeding two dense layers with a softmax over the 10-class
// vocabulary. The weights may be randomly initialized if no trained state
// was loaded; callers must not assume trained accuracy.
type Network struct {
	weights []*tensor.Dense // w0..w2 conv kernels, w3..w4 dense
}

// New constructs a Network with Glorot-initialized random weights.
func New() *Network {
	g := gorgonia.NewGraph()

	w0 := gorgonia.NewTensor(g, tensor.Float64, 4, gorgonia.WithShape(32, 1, 3, 3), gorgonia.WithName("w0"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	w1 := gorgonia.NewTensor(g, tensor.Float64, 4, gorgonia.WithShape(64, 32, 3, 3), gorgonia.WithName("w1"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	w2 := gorgonia.NewTensor(g, tensor.Float64, 4, gorgonia.WithShape(128, 64, 3, 3), gorgonia.WithName("w2"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	w3 := gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(flattenedSize, denseSize), gorgonia.WithName("w3"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	w4 := gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(denseSize, NumClasses), gorgonia.WithName("w4"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))

	weights := make([]*tensor.Dense, 0, 5)
	for _, node := range []*gorgonia.Node{w0, w1, w2, w3, w4} {
		weights = append(weights, node.Value().(*tensor.Dense))
	}
	return &Network{weights: weights}
}

// Load reads gob-encoded weights from path.
func Load(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open weights file %s: %w", path, err)
	}
	defer f.Close()

	var weights []*tensor.Dense
	if err := gob.NewDecoder(f).Decode(&weights); err != nil {
		return nil, fmt.Errorf("failed to decode weights from %s: %w", path, err)
	}
	if len(weights) != 5 {
		return nil, fmt.Errorf("weights file %s holds %d tensors, want 5", path, len(weights))
	}
	return &Network{weights: weights}, nil
}

// Save writes the current weights to path.
func (n *Network) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create weights file %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(n.weights); err != nil {
		return fmt.Errorf("failed to encode weights to %s: %w", path, err)
	}
	return nil
}

// buildForward wires the conv stack onto x and returns the softmax output
// node. Dropout layers are only inserted when training; inference is
// deterministic.
func (n *Network) buildForward(g *gorgonia.ExprGraph, x *gorgonia.Node, batchSize int, training bool) (*gorgonia.Node, []*gorgonia.Node, error) {
	nodes := make([]*gorgonia.Node, 5)
	names := [5]string{"w0", "w1", "w2", "w3", "w4"}
	for i, w := range n.weights {
		nodes[i] = gorgonia.NodeFromAny(g, w, gorgonia.WithName(names[i]))
	}

	out := x
	for block := 0; block < 3; block++ {
		c, err := gorgonia.Conv2d(out, nodes[block], tensor.Shape{3, 3}, []int{1, 1}, []int{1, 1}, []int{1, 1})
		if err != nil {
			return nil, nil, fmt.Errorf("conv block %d failed: %w", block, err)
		}
		a, err := gorgonia.Rectify(c)
		if err != nil {
			return nil, nil, fmt.Errorf("activation block %d failed: %w", block, err)
		}
		p, err := gorgonia.MaxPool2D(a, tensor.Shape{2, 2}, []int{0, 0}, []int{2, 2})
		if err != nil {
			return nil, nil, fmt.Errorf("pool block %d failed: %w", block, err)
		}
		out = p
		if training {
			d, err := gorgonia.Dropout(p, dropoutRates[block])
			if err != nil {
				return nil, nil, fmt.Errorf("dropout block %d failed: %w", block, err)
			}
			out = d
		}
	}

	flat, err := gorgonia.Reshape(out, tensor.Shape{batchSize, flattenedSize})
	if err != nil {
		return nil, nil, fmt.Errorf("flatten failed: %w", err)
	}

	fc, err := gorgonia.Mul(flat, nodes[3])
	if err != nil {
		return nil, nil, fmt.Errorf("dense layer failed: %w", err)
	}
	fcAct, err := gorgonia.Rectify(fc)
	if err != nil {
		return nil, nil, fmt.Errorf("dense activation failed: %w", err)
	}
	dense := fcAct
	if training {
		d, err := gorgonia.Dropout(fcAct, dropoutRates[3])
		if err != nil {
			return nil, nil, fmt.Errorf("dense dropout failed: %w", err)
		}
		dense = d
	}

	logits, err := gorgonia.Mul(dense, nodes[4])
	if err != nil {
		return nil, nil, fmt.Errorf("output layer failed: %w", err)
	}
	probs, err := gorgonia.SoftMax(logits)
	if err != nil {
		return nil, nil, fmt.Errorf("softmax failed: %w", err)
	}
	return probs, nodes, nil
}

// Predict runs a single 28x28 grayscale input (row-major, [0,1]) through
// the network and returns the softmax distribution over the vocabulary.
func (n *Network) Predict(input []float64) ([]float64, error) {
	if len(input) != InputSize*InputSize {
		return nil, fmt.Errorf("input has %d values, want %d", len(input), InputSize*InputSize)
	}

	g := gorgonia.NewGraph()
	x := gorgonia.NewTensor(g, tensor.Float64, 4, gorgonia.WithShape(1, 1, InputSize, InputSize), gorgonia.WithName("x"))

	probs, _, err := n.buildForward(g, x, 1, false)
	if err != nil {
		return nil, err
	}
	var probsVal gorgonia.Value
	gorgonia.Read(probs, &probsVal)

	machine := gorgonia.NewTapeMachine(g)
	defer machine.Close()

	backing := make([]float64, len(input))
	copy(backing, input)
	xT := tensor.New(tensor.WithShape(1, 1, InputSize, InputSize), tensor.WithBacking(backing))
	if err := gorgonia.Let(x, xT); err != nil {
		return nil, fmt.Errorf("failed to bind input: %w", err)
	}

	if err := machine.RunAll(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	data, ok := probsVal.Data().([]float64)
	if !ok || len(data) != NumClasses {
		return nil, fmt.Errorf("unexpected softmax output shape")
	}
	out := make([]float64, NumClasses)
	copy(out, data)
	return out, nil
}

// Train fits the network on ds for the given number of epochs and mutates
// the weights in place. It must not run concurrently with Predict; callers
// serialize the two.
func (n *Network) Train(ctx context.Context, ds *Dataset, epochs int, batchSize int) error {
	if epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", epochs)
	}
	if batchSize <= 0 {
		batchSize = 64
	}
	if ds.Count < batchSize {
		return fmt.Errorf("dataset has %d examples, need at least %d", ds.Count, batchSize)
	}

	g := gorgonia.NewGraph()
	x := gorgonia.NewTensor(g, tensor.Float64, 4, gorgonia.WithShape(batchSize, 1, InputSize, InputSize), gorgonia.WithName("x"))
	y := gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(batchSize, NumClasses), gorgonia.WithName("y"))

	probs, learnables, err := n.buildForward(g, x, batchSize, true)
	if err != nil {
		return err
	}

	logProbs, err := gorgonia.Log(probs)
	if err != nil {
		return fmt.Errorf("log failed: %w", err)
	}
	losses, err := gorgonia.HadamardProd(logProbs, y)
	if err != nil {
		return fmt.Errorf("loss product failed: %w", err)
	}
	meanLoss, err := gorgonia.Mean(losses)
	if err != nil {
		return fmt.Errorf("mean loss failed: %w", err)
	}
	cost, err := gorgonia.Neg(meanLoss)
	if err != nil {
		return fmt.Errorf("cost negation failed: %w", err)
	}

	if _, err := gorgonia.Grad(cost, learnables...); err != nil {
		return fmt.Errorf("gradient construction failed: %w", err)
	}

	machine := gorgonia.NewTapeMachine(g, gorgonia.BindDualValues(learnables...))
	defer machine.Close()

	solver := gorgonia.NewRMSPropSolver(gorgonia.WithBatchSize(float64(batchSize)))
	batches := ds.Count / batchSize

	for epoch := 0; epoch < epochs; epoch++ {
		for b := 0; b < batches; b++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			xBatch, yBatch := ds.Batch(b, batchSize)
			if err := gorgonia.Let(x, xBatch); err != nil {
				return fmt.Errorf("failed to bind batch input: %w", err)
			}
			if err := gorgonia.Let(y, yBatch); err != nil {
				return fmt.Errorf("failed to bind batch labels: %w", err)
			}

			if err := machine.RunAll(); err != nil {
				return fmt.Errorf("epoch %d batch %d failed: %w", epoch, b, err)
			}
			if err := solver.Step(gorgonia.NodesToValueGrads(learnables)); err != nil {
				return fmt.Errorf("solver step failed: %w", err)
			}
			machine.Reset()
		}
	}

	return nil
}
