package evaluator

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Save writes the network config and weights as zstd compressed JSON
func (n *Network) Save(w io.Writer) error {
	encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create encoder: %w", err)
	}
	if err := json.NewEncoder(encoder).Encode(n.Config()); err != nil {
		encoder.Close()
		return fmt.Errorf("failed to encode network: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush network: %w", err)
	}
	return nil
}

func Load(r io.Reader) (*Network, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	defer decoder.Close()

	var config NetworkConfig
	if err := json.NewDecoder(decoder).Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode network: %w", err)
	}
	return NewNetwork(config)
}

func (n *Network) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create network file: %w", err)
	}
	defer f.Close()

	if err := n.Save(f); err != nil {
		return err
	}
	return f.Close()
}

func LoadFile(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open network file: %w", err)
	}
	defer f.Close()

	return Load(f)
}
