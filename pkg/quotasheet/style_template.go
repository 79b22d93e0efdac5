package quotasheet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type StyleTemplate struct {
	Font      *FontTemplate      `yaml:"font"`
	Fill      *FillTemplate      `yaml:"fill"`
	Alignment *AlignmentTemplate `yaml:"alignment"`
	Border    *BorderTemplate    `yaml:"border"`
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"` // Hex color
}

type FillTemplate struct {
	Color string `yaml:"color"` // Hex color
}

type AlignmentTemplate struct {
	Horizontal string `yaml:"horizontal"` // center, left, right
	Vertical   string `yaml:"vertical"`   // top, middle, bottom
}

type BorderTemplate struct {
	Style string `yaml:"style"` // solid, solid_medium, solid_thick, dashed, dotted, double
	Color string `yaml:"color"` // Hex color
}

// StyleSet holds one template per zone.
type StyleSet struct {
	Header      StyleTemplate `yaml:"header"`
	FirstColumn StyleTemplate `yaml:"first_column"`
	Footer      StyleTemplate `yaml:"footer"`
	Border      StyleTemplate `yaml:"border"`
}

const (
	DefaultFillColor   = "EFEFEF"
	DefaultBorderColor = "000000"
)

func DefaultStyleSet() StyleSet {
	return StyleSet{
		Header: StyleTemplate{
			Font:      &FontTemplate{Bold: true},
			Fill:      &FillTemplate{Color: DefaultFillColor},
			Alignment: &AlignmentTemplate{Horizontal: "center"},
		},
		FirstColumn: StyleTemplate{
			Fill: &FillTemplate{Color: DefaultFillColor},
		},
		Footer: StyleTemplate{
			Fill: &FillTemplate{Color: DefaultFillColor},
		},
		Border: StyleTemplate{
			Border: &BorderTemplate{Style: "solid", Color: DefaultBorderColor},
		},
	}
}

// For returns the template of zone z.
func (s StyleSet) For(z Zone) StyleTemplate {
	switch z {
	case ZoneHeader:
		return s.Header
	case ZoneFirstColumn:
		return s.FirstColumn
	case ZoneFooter:
		return s.Footer
	case ZoneBorder:
		return s.Border
	}
	return StyleTemplate{}
}

// ParseStyleSet decodes YAML overrides on top of the defaults. Keys present in
// the document win even when they hold a zero value (bold: false, color: "").
func ParseStyleSet(data []byte) (StyleSet, error) {
	set := DefaultStyleSet()
	if err := yaml.Unmarshal(data, &set); err != nil {
		return StyleSet{}, fmt.Errorf("failed to parse style template: %w", err)
	}
	return set, nil
}

// LoadStyleSet reads a style template file. An empty path or a missing file yields the defaults.
func LoadStyleSet(path string) (StyleSet, error) {
	if path == "" {
		return DefaultStyleSet(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultStyleSet(), nil
	}
	if err != nil {
		return StyleSet{}, fmt.Errorf("failed to read style template: %w", err)
	}
	return ParseStyleSet(data)
}
