package nn

import (
	"fmt"
	"math"

	"github.com/quill-ml/quill/internal/tensor"
)

// Softmax applies a numerically stable row-wise softmax to a
// [batch, classes] tensor. Every output entry is strictly positive.
func Softmax(logits *tensor.Tensor) *tensor.Tensor {
	shape := logits.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("Softmax: expected 2D logits, got shape %v", shape))
	}
	out := logits.Clone()
	for i := 0; i < shape[0]; i++ {
		row := out.Row(i)
		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		sum := 0.0
		for j, v := range row {
			e := math.Exp(v - maxVal)
			row[j] = e
			sum += e
		}
		for j := range row {
			row[j] /= sum
		}
	}
	return out
}

// SoftmaxCrossEntropy computes the mean categorical cross-entropy
// between logits and one-hot targets, both [batch, classes].
//
// Returns the scalar loss and the gradient with respect to the logits,
// (softmax(logits) - targets) / batch, ready to feed into Backward.
func SoftmaxCrossEntropy(logits, targets *tensor.Tensor) (float64, *tensor.Tensor) {
	if !logits.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("SoftmaxCrossEntropy: logits shape %v and targets shape %v differ", logits.Shape(), targets.Shape()))
	}
	batch := logits.Shape()[0]

	probs := Softmax(logits)
	loss := 0.0
	for i := 0; i < batch; i++ {
		p := probs.Row(i)
		for j, t := range targets.Row(i) {
			if t != 0 {
				loss -= t * math.Log(p[j])
			}
		}
	}
	loss /= float64(batch)

	dLogits := probs.Add(targets.Scale(-1)).Scale(1.0 / float64(batch))
	return loss, dLogits
}
