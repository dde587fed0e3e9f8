package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ogurasousui/personnel-promotion/internal/core/promotion"
	"gopkg.in/yaml.v3"
)

// LoadStatutes は法定テーブルを YAML から読み込みます。path が空なら組み込みテーブルを返します。
func LoadStatutes(path string) (*promotion.Statutes, error) {
	if path == "" {
		return promotion.DefaultStatutes(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read statutes %s: %w", path, err)
	}

	var st promotion.Statutes
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&st); err != nil {
		return nil, fmt.Errorf("config: parse statutes: %w", err)
	}

	if err := st.CanonicalizeNames(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return &st, nil
}
