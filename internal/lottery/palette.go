package lottery

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed palette.yaml
var paletteYAML []byte

// Brand is the visual identity of one lottery.
type Brand struct {
	Key     string `yaml:"key"`
	Color   string `yaml:"color"`
	Logo    string `yaml:"logo"`
	Numbers int    `yaml:"numbers"`
}

// Known reports whether the brand came from the palette table.
func (b Brand) Known() bool { return b.Key != "" }

type paletteFile struct {
	Default   Brand   `yaml:"default"`
	Lotteries []Brand `yaml:"lotteries"`
}

// Palette resolves lottery names to brands. Unknown names get the default.
type Palette struct {
	fallback Brand
	byKey    map[string]Brand
}

// ParsePalette decodes a palette document.
func ParsePalette(data []byte) (*Palette, error) {
	var file paletteFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode palette: %w", err)
	}
	p := &Palette{fallback: file.Default, byKey: make(map[string]Brand, len(file.Lotteries))}
	p.fallback.Key = ""
	p.fallback.Logo = ""
	if p.fallback.Numbers <= 0 {
		p.fallback.Numbers = 6
	}
	for _, brand := range file.Lotteries {
		key := NormalizeKey(brand.Key)
		if key == "" {
			return nil, fmt.Errorf("palette entry with empty key")
		}
		brand.Key = key
		if brand.Numbers <= 0 {
			brand.Numbers = p.fallback.Numbers
		}
		if brand.Color == "" {
			brand.Color = p.fallback.Color
		}
		p.byKey[key] = brand
	}
	return p, nil
}

// Lookup returns the brand for a raw lottery name.
func (p *Palette) Lookup(name string) Brand {
	if brand, ok := p.byKey[NormalizeKey(name)]; ok {
		return brand
	}
	return p.fallback
}

var (
	defaultPalette     *Palette
	defaultPaletteOnce sync.Once
)

// DefaultPalette returns the embedded palette.
func DefaultPalette() *Palette {
	defaultPaletteOnce.Do(func() {
		p, err := ParsePalette(paletteYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded palette: %v", err))
		}
		defaultPalette = p
	})
	return defaultPalette
}
