package content

import "fmt"

// Transformer rewrites a document, returning the result or an error.
type Transformer interface {
	Transform(input []byte) ([]byte, error)
}

// TransformerFunc adapts a plain function to [Transformer].
type TransformerFunc func(input []byte) ([]byte, error)

// Transform satisfies [Transformer].
func (fn TransformerFunc) Transform(input []byte) ([]byte, error) { return fn(input) }

// Chain runs transformers in order, feeding each the previous output. The
// first error stops the chain.
func Chain(transformers ...Transformer) TransformerFunc {
	return func(input []byte) (out []byte, err error) {
		out = input
		for i, tr := range transformers {
			if out, err = tr.Transform(out); err != nil {
				return nil, fmt.Errorf("transform %d of %d: %w", i+1, len(transformers), err)
			}
		}
		return out, nil
	}
}
