// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// InlineDecl restricts the related content inline shown for one source
// model. A nil list means "no restriction"; an empty list allows nothing.
type InlineDecl struct {
	AllowedTypes        []string `yaml:"allowed_types"`
	AllowedContentTypes []string `yaml:"allowed_content_types"`
}

// inlineFile is the on-disk layout of the declarations file.
type inlineFile struct {
	Inlines map[string]InlineDecl `yaml:"inlines"`
}

// LoadInlines reads restricted inline declarations keyed by source model
// (e.g. "article"). An empty path returns no declarations.
func LoadInlines(path string) (map[string]InlineDecl, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inlines file: %w", err)
	}

	return ParseInlines(raw)
}

// ParseInlines decodes YAML inline declarations.
func ParseInlines(raw []byte) (map[string]InlineDecl, error) {
	var f inlineFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse inlines file: %w", err)
	}
	for model := range f.Inlines {
		if model == "" {
			return nil, fmt.Errorf("parse inlines file: empty source model name")
		}
	}
	return f.Inlines, nil
}
