package nn

import (
	"math"
	"math/rand"

	"github.com/quill-ml/quill/internal/tensor"
)

// Xavier creates a tensor initialized with Xavier/Glorot uniform
// values: U(-limit, limit) with limit = sqrt(6 / (fanIn + fanOut)).
//
// Keeps activation variance roughly constant across layers at init,
// which matters for sigmoid/tanh gates.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Tensor {
	limit := math.Sqrt(6.0 / float64(fanIn+fanOut))
	t := tensor.New(shape)
	data := t.Data()
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * limit
	}
	return t
}
