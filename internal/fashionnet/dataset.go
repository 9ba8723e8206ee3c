package fashionnet

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gorgonia.org/tensor"
)

const (
	imageMagic = 2051
	labelMagic = 2049

	// Canonical Fashion-MNIST file names (optionally gzipped).
	TrainImagesFile = "train-images-idx3-ubyte"
	TrainLabelsFile = "train-labels-idx1-ubyte"
)

// Dataset holds a training set as a flat pixel tensor plus one-hot labels.
type Dataset struct {
	Count  int
	Images *tensor.Dense // shape (count, 1, 28, 28), values in [0,1]
	Labels *tensor.Dense // shape (count, NumClasses), one-hot
}

// LoadDataset reads the Fashion-MNIST training pair from dir. Both plain
// and .gz variants of the canonical file names are accepted.
func LoadDataset(dir string) (*Dataset, error) {
	images, err := readImages(filepath.Join(dir, TrainImagesFile))
	if err != nil {
		return nil, err
	}
	labels, err := readLabels(filepath.Join(dir, TrainLabelsFile))
	if err != nil {
		return nil, err
	}
	return NewDataset(images, labels)
}

// NewDataset assembles a Dataset from raw pixel rows and class indexes.
func NewDataset(images [][]float64, labels []int) (*Dataset, error) {
	if len(images) != len(labels) {
		return nil, fmt.Errorf("image count %d does not match label count %d", len(images), len(labels))
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}

	count := len(images)
	xBacking := make([]float64, count*InputSize*InputSize)
	yBacking := make([]float64, count*NumClasses)
	for i, img := range images {
		if len(img) != InputSize*InputSize {
			return nil, fmt.Errorf("image %d has %d pixels, want %d", i, len(img), InputSize*InputSize)
		}
		copy(xBacking[i*InputSize*InputSize:], img)
		cls := labels[i]
		if cls < 0 || cls >= NumClasses {
			return nil, fmt.Errorf("label %d out of range for image %d", cls, i)
		}
		yBacking[i*NumClasses+cls] = 1
	}

	return &Dataset{
		Count:  count,
		Images: tensor.New(tensor.WithShape(count, 1, InputSize, InputSize), tensor.WithBacking(xBacking)),
		Labels: tensor.New(tensor.WithShape(count, NumClasses), tensor.WithBacking(yBacking)),
	}, nil
}

// Batch slices out the b-th batch of the given size as fresh tensors.
func (d *Dataset) Batch(b, size int) (*tensor.Dense, *tensor.Dense) {
	start := b * size
	xData := d.Images.Data().([]float64)
	yData := d.Labels.Data().([]float64)

	xBacking := make([]float64, size*InputSize*InputSize)
	copy(xBacking, xData[start*InputSize*InputSize:])
	yBacking := make([]float64, size*NumClasses)
	copy(yBacking, yData[start*NumClasses:])

	x := tensor.New(tensor.WithShape(size, 1, InputSize, InputSize), tensor.WithBacking(xBacking))
	y := tensor.New(tensor.WithShape(size, NumClasses), tensor.WithBacking(yBacking))
	return x, y
}

// openMaybeGzip opens path, falling back to path+".gz", and transparently
// decompresses gzipped content.
func openMaybeGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if gz, gzErr := os.Open(path + ".gz"); gzErr == nil {
			f = gz
		} else {
			return nil, fmt.Errorf("failed to open dataset file %s: %w", path, err)
		}
	}
	if strings.HasSuffix(f.Name(), ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to read gzip header of %s: %w", f.Name(), err)
		}
		return &gzipFile{zr: zr, f: f}, nil
	}
	return f, nil
}

type gzipFile struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipFile) Close() error {
	g.zr.Close()
	return g.f.Close()
}

func readImages(path string) ([][]float64, error) {
	r, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var header struct {
		Magic, Count, Rows, Cols int32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read image header of %s: %w", path, err)
	}
	if header.Magic != imageMagic {
		return nil, fmt.Errorf("%s has magic %d, want %d", path, header.Magic, imageMagic)
	}
	if header.Rows != InputSize || header.Cols != InputSize {
		return nil, fmt.Errorf("%s holds %dx%d images, want %dx%d", path, header.Rows, header.Cols, InputSize, InputSize)
	}

	pixels := int(header.Rows * header.Cols)
	images := make([][]float64, header.Count)
	buf := make([]byte, pixels)
	for i := range images {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("failed to read image %d of %s: %w", i, path, err)
		}
		img := make([]float64, pixels)
		for j, px := range buf {
			img[j] = float64(px) / 255
		}
		images[i] = img
	}
	return images, nil
}

func readLabels(path string) ([]int, error) {
	r, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var header struct {
		Magic, Count int32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read label header of %s: %w", path, err)
	}
	if header.Magic != labelMagic {
		return nil, fmt.Errorf("%s has magic %d, want %d", path, header.Magic, labelMagic)
	}

	buf := make([]byte, header.Count)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("failed to read labels of %s: %w", path, err)
	}
	labels := make([]int, header.Count)
	for i, b := range buf {
		labels[i] = int(b)
	}
	return labels, nil
}
