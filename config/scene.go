// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/gogpu/offscreen"
	"github.com/gogpu/offscreen/framebuf"
)

// ErrScene is returned for scene files that cannot be used.
var ErrScene = errors.New("config: invalid scene")

// Scene lists the surfaces a host opens at startup.
//
//	surfaces:
//	  - name: news
//	    url: https://example.com
//	    width: 1280
//	    height: 720
//	    hideScrollbars: true
type Scene struct {
	Surfaces []SurfaceSpec `yaml:"surfaces"`
}

// SurfaceSpec describes one surface. A zero size means 1280x720.
type SurfaceSpec struct {
	Name           string `yaml:"name"`
	URL            string `yaml:"url"`
	Width          int    `yaml:"width,omitempty"`
	Height         int    `yaml:"height,omitempty"`
	HideScrollbars bool   `yaml:"hideScrollbars,omitempty"`
}

// Size returns the configured size, or the zero Size when unset.
func (s SurfaceSpec) Size() framebuf.Size {
	return framebuf.Size{Width: s.Width, Height: s.Height}
}

// Options converts the entry into surface options.
func (s SurfaceSpec) Options() offscreen.SurfaceOptions {
	size := s.Size()
	if size == (framebuf.Size{}) {
		size = framebuf.Size{Width: offscreen.DefaultWidth, Height: offscreen.DefaultHeight}
	}
	return offscreen.SurfaceOptions{
		Size:           size,
		URL:            s.URL,
		HideScrollbars: s.HideScrollbars,
		Name:           s.Name,
	}
}

// LoadScene reads and validates a YAML scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read scene: %w", err)
	}
	return ParseScene(data)
}

// ParseScene decodes and validates YAML scene data. Unknown fields are
// rejected.
func ParseScene(data []byte) (*Scene, error) {
	var scene Scene
	if err := yaml.UnmarshalWithOptions(data, &scene, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScene, err)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return &scene, nil
}

// Validate rejects duplicate names and negative sizes.
func (s *Scene) Validate() error {
	seen := make(map[string]bool, len(s.Surfaces))
	for i, spec := range s.Surfaces {
		if spec.Width < 0 || spec.Height < 0 {
			return fmt.Errorf("%w: surface %d has size %v", ErrScene, i, spec.Size())
		}
		if (spec.Width == 0) != (spec.Height == 0) {
			return fmt.Errorf("%w: surface %d sets only one dimension", ErrScene, i)
		}
		if spec.Name == "" {
			continue
		}
		if seen[spec.Name] {
			return fmt.Errorf("%w: duplicate surface name %q", ErrScene, spec.Name)
		}
		seen[spec.Name] = true
	}
	return nil
}

// Marshal encodes the scene as YAML.
func (s *Scene) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
