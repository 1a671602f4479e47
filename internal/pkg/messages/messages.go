// Package messages resolves the human readable text attached to responses.
// Success messages are keyed by operation name and business error messages by
// error code. Lookups ignore case.
package messages

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSuccess = "Success."
	DefaultError   = "Unknown error."
)

// Entry is one code to message mapping
type Entry struct {
	Code    string `yaml:"code"`
	Message string `yaml:"message"`
}

type file struct {
	Success []Entry `yaml:"success"`
	Errors  []Entry `yaml:"errors"`
}

// Provider is an immutable message table
type Provider struct {
	success map[string]string
	errors  map[string]string
}

// New builds a provider from entry lists, rejecting duplicate codes
func New(success, errs []Entry) (*Provider, error) {
	s, err := buildMap("success", success)
	if err != nil {
		return nil, err
	}
	e, err := buildMap("errors", errs)
	if err != nil {
		return nil, err
	}
	return &Provider{success: s, errors: e}, nil
}

// Load reads the message tables from a YAML file
func Load(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	return Parse(data)
}

// Parse decodes the YAML document, unknown keys are an error
func Parse(data []byte) (*Provider, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse messages: %w", err)
	}
	return New(f.Success, f.Errors)
}

// Success returns the message for a completed operation
func (p *Provider) Success(operation string) string {
	if p != nil {
		if m, ok := p.success[strings.ToLower(operation)]; ok {
			return m
		}
	}
	return DefaultSuccess
}

// Error returns the message for a business error code
func (p *Provider) Error(code string) string {
	if p != nil {
		if m, ok := p.errors[strings.ToLower(code)]; ok {
			return m
		}
	}
	return DefaultError
}

func buildMap(section string, entries []Entry) (map[string]string, error) {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Code))
		if key == "" {
			return nil, fmt.Errorf("%s: entry with empty code", section)
		}
		if _, dup := m[key]; dup {
			return nil, fmt.Errorf("%s: duplicate code %q", section, e.Code)
		}
		m[key] = e.Message
	}
	return m, nil
}
