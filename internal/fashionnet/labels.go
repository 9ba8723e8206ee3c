// Package fashionnet owns a small convolutional network over the
// Fashion-MNIST vocabulary: construction, inference, training, and weight
// persistence. All numerical work is delegated to gorgonia.
package fashionnet

// NumClasses is the size of the output softmax.
const NumClasses = 10

// Labels is the fixed vocabulary, in class-index order.
var Labels = [NumClasses]string{
	"T-shirt/top",
	"Trouser",
	"Pullover",
	"Dress",
	"Coat",
	"Sandal",
	"Shirt",
	"Sneaker",
	"Bag",
	"Ankle boot",
}

// InputSize is the side length of the square grayscale input.
const InputSize = 28
