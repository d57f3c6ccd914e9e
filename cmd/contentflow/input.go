package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/randalmurphal/contentflow/pkg/contentflow"
)

// readInput builds the initial state. A JSON object becomes structured
// product data; anything else is treated as raw text for extraction.
func readInput(f *flags, stdin io.Reader) (contentflow.State, error) {
	text := f.text
	if f.input != "" {
		data, err := readSource(f.input, stdin)
		if err != nil {
			return contentflow.State{}, err
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return contentflow.State{}, errors.New("input is empty")
	}
	return parseInput(text), nil
}

func readSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func parseInput(text string) contentflow.State {
	if strings.HasPrefix(text, "{") {
		var record map[string]any
		if err := json.Unmarshal([]byte(text), &record); err == nil && len(record) > 0 {
			return contentflow.NewStateFromProduct(record)
		}
	}
	return contentflow.NewState(text)
}
