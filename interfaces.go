package wardrobe

import (
	"context"
	"errors"
)

// ErrNotReady is returned by a classifier whose backing resource is still
// initializing. The orchestrator treats it like a transient failure: wait
// briefly, retry once, then fall back.
var ErrNotReady = errors.New("classifier is not ready")

// ImageClassifier classifies an image into the wardrobe taxonomy. fileName
// is optional and may be empty; implementations that cannot use it ignore
// it. Heuristic implementations never return an error; remote and model
// backed implementations may.
type ImageClassifier interface {
	Classify(ctx context.Context, image []byte, fileName string) (*Result, error)
}

// Trainer is implemented by classifiers with an explicit, out-of-band
// training operation. Training must never run concurrently with inference
// against the same model.
type Trainer interface {
	Train(ctx context.Context, epochs int) error
}

// TextGenerator produces free-form text from a prompt. The outfit
// recommendation flow expects the text to contain one JSON object; parsing
// and validation are the consumer's job, not the generator's.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ItemStore persists wardrobe items. Create succeeds or returns an error;
// no further transactional guarantees are assumed.
type ItemStore interface {
	Create(ctx context.Context, item Item) (*Item, error)
	Get(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	Update(ctx context.Context, item Item) (*Item, error)
	Delete(ctx context.Context, id string) error
}

// TokenVerifier validates bearer tokens. A nil identity means the token is
// invalid.
type TokenVerifier interface {
	VerifyToken(token string) *UserIdentity
}

// BackgroundRemover produces a background-removed version of an image.
type BackgroundRemover interface {
	RemoveBackground(ctx context.Context, image []byte) ([]byte, error)
}
