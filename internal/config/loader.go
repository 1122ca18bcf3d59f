package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source records where a setting came from.
type Source struct {
	Kind   SourceKind
	Name   string // for defaults
	File   string
	Line   int
	Column int
}

// LoadResult is a validated configuration together with the position of
// every value written in the file.
type LoadResult struct {
	Config  *Config
	Sources map[string]Source // keyed by path, e.g. "colors.focused" or "keys[2].action"
	File    string            // empty when the defaults were used
}

// LoadWithSources loads the file at DefaultConfigPath.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath applies the file at path on top of the defaults. A missing
// file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	res := &LoadResult{Sources: map[string]Source{}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		data = nil
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		res.File = path
	}

	raw, err := parseRaw(data, path)
	if err != nil {
		return nil, err
	}
	if res.File != "" {
		res.Sources, err = positions(data, path)
		if err != nil {
			return nil, err
		}
	}

	res.Config = BuildEffectiveConfig(raw)
	if err := res.Config.Validate(); err != nil {
		return nil, withSource(err, res.Sources)
	}
	return res, nil
}

// parseRaw decodes data, rejecting fields xiwm does not know. Empty input
// decodes to the zero RawConfig.
func parseRaw(data []byte, path string) (RawConfig, error) {
	var raw RawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return RawConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// positions walks the YAML tree of data and records the line and column of
// every mapping value and sequence item.
func positions(data []byte, path string) (map[string]Source, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	out := map[string]Source{}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return out, nil
		}
		root = root.Content[0]
	}

	var walk func(n *yaml.Node, prefix string)
	walk = func(n *yaml.Node, prefix string) {
		switch n.Kind {
		case yaml.MappingNode:
			for i := 0; i+1 < len(n.Content); i += 2 {
				key := n.Content[i].Value
				if prefix != "" {
					key = prefix + "." + key
				}
				val := n.Content[i+1]
				out[key] = Source{Kind: SourceFile, File: path, Line: val.Line, Column: val.Column}
				walk(val, key)
			}
		case yaml.SequenceNode:
			for i, item := range n.Content {
				key := fmt.Sprintf("%s[%d]", prefix, i)
				out[key] = Source{Kind: SourceFile, File: path, Line: item.Line, Column: item.Column}
				walk(item, key)
			}
		}
	}
	walk(root, "")
	return out, nil
}

// withSource fills in where the offending value was written, falling back
// to the closest enclosing path that has a position.
func withSource(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	for p := verr.Path; p != ""; p = parentPath(p) {
		if src, ok := sources[p]; ok {
			verr.Source = src
			break
		}
	}
	return verr
}

// parentPath strips the last ".field" or "[i]" element.
func parentPath(path string) string {
	i := strings.LastIndexAny(path, ".[")
	if i <= 0 {
		return ""
	}
	return path[:i]
}
