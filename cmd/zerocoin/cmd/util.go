package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"zerocoin/internal/zerocoin"
)

func readJSON(path string, target interface{}) error {
	dat, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := json.Unmarshal(dat, target); err != nil {
		return fmt.Errorf("cannot unmarshal json in %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, data interface{}) error {
	bz, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal json: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}
	if err := os.WriteFile(path, bz, 0644); err != nil {
		return fmt.Errorf("could not write file: %w", err)
	}
	log.Info().Msgf("wrote file %v", path)
	return nil
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// LoadParams reads and validates a parameter file.
func LoadParams(path string) (*zerocoin.Params, error) {
	var pc zerocoin.ParamsConfig
	if err := readJSON(path, &pc); err != nil {
		return nil, err
	}
	params, err := pc.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid params in %s: %w", path, err)
	}
	return params, nil
}

// SaveParams writes params in their JSON form.
func SaveParams(path string, params *zerocoin.Params) error {
	return writeJSON(path, params.Config())
}
