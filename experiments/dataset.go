package experiments

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"renju/evaluator"

	"github.com/klauspost/compress/zstd"
)

// WriteDataset streams examples as zstd compressed JSON lines
func WriteDataset(w io.Writer, examples []evaluator.Example) error {
	encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create encoder: %w", err)
	}
	enc := json.NewEncoder(encoder)
	for i, ex := range examples {
		if err := enc.Encode(ex); err != nil {
			encoder.Close()
			return fmt.Errorf("failed to encode example %d: %w", i, err)
		}
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush dataset: %w", err)
	}
	return nil
}

func ReadDataset(r io.Reader) ([]evaluator.Example, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	defer decoder.Close()

	var examples []evaluator.Example
	dec := json.NewDecoder(decoder)
	for {
		var ex evaluator.Example
		err := dec.Decode(&ex)
		if errors.Is(err, io.EOF) {
			return examples, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode example %d: %w", len(examples), err)
		}
		examples = append(examples, ex)
	}
}

func WriteDatasetFile(path string, examples []evaluator.Example) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer f.Close()

	if err := WriteDataset(f, examples); err != nil {
		return err
	}
	return f.Close()
}

func ReadDatasetFile(path string) ([]evaluator.Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	return ReadDataset(f)
}
