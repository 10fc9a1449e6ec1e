package navigation

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/telaviv/ops-dashboard/internal/domain"
)

// Link is a quick link shown on the dashboard home.
type Link struct {
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
	URL         string `yaml:"url" json:"url"`
}

// Screen is one entry of the authenticated menu. Group entries have no
// path and carry children instead.
type Screen struct {
	ID       string        `yaml:"id" json:"id"`
	Label    string        `yaml:"label" json:"label"`
	Path     string        `yaml:"path,omitempty" json:"path,omitempty"`
	Allow    []domain.Role `yaml:"allow,omitempty" json:"-"`
	Report   string        `yaml:"report,omitempty" json:"report,omitempty"`
	Links    []Link        `yaml:"links,omitempty" json:"links,omitempty"`
	Children []Screen      `yaml:"children,omitempty" json:"children,omitempty"`
}

// Catalog is the ordered screen tree of the authenticated shell.
type Catalog struct {
	Screens []Screen `yaml:"screens"`
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read navigation catalog: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse navigation catalog: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Validate checks paths are unique and every role is known.
func (c *Catalog) Validate() error {
	if len(c.Screens) == 0 {
		return fmt.Errorf("navigation catalog has no screens")
	}
	seen := map[string]bool{}
	var walk func(screens []Screen) error
	walk = func(screens []Screen) error {
		for _, s := range screens {
			if s.Label == "" {
				return fmt.Errorf("screen %q: label is required", s.ID)
			}
			if s.Path == "" && len(s.Children) == 0 {
				return fmt.Errorf("screen %q: path or children required", s.ID)
			}
			if s.Path != "" {
				key := normalize(s.Path)
				if seen[key] {
					return fmt.Errorf("screen %q: duplicate path %s", s.ID, s.Path)
				}
				seen[key] = true
			}
			for _, r := range s.Allow {
				if !r.Known() {
					return fmt.Errorf("screen %q: unknown role %q", s.ID, r)
				}
			}
			if err := walk(s.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(c.Screens)
}

// VisibleMenu returns the screens role may open. A group is kept when its
// own allow-list admits the role and at least one child survives.
func (c *Catalog) VisibleMenu(role domain.Role) []Screen {
	return filter(c.Screens, role)
}

func filter(screens []Screen, role domain.Role) []Screen {
	out := make([]Screen, 0, len(screens))
	for _, s := range screens {
		if !admits(s.Allow, role) {
			continue
		}
		if len(s.Children) > 0 {
			s.Children = filter(s.Children, role)
			if len(s.Children) == 0 && s.Path == "" {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// Lookup finds a screen by path, case-insensitively.
func (c *Catalog) Lookup(path string) (Screen, bool) {
	return lookup(c.Screens, normalize(path))
}

func lookup(screens []Screen, path string) (Screen, bool) {
	for _, s := range screens {
		if s.Path != "" && normalize(s.Path) == path {
			return s, true
		}
		if found, ok := lookup(s.Children, path); ok {
			return found, true
		}
	}
	return Screen{}, false
}

// Title is the page title for path, empty when the path is unknown.
func (c *Catalog) Title(path string) string {
	s, ok := c.Lookup(path)
	if !ok {
		return ""
	}
	return s.Label
}

// Reports lists every screen bound to a BI report.
func (c *Catalog) Reports() []Screen {
	var out []Screen
	var walk func([]Screen)
	walk = func(screens []Screen) {
		for _, s := range screens {
			if s.Report != "" {
				out = append(out, s)
			}
			walk(s.Children)
		}
	}
	walk(c.Screens)
	return out
}

func admits(allow []domain.Role, role domain.Role) bool {
	return len(allow) == 0 || domain.ContainsRole(allow, role)
}

func normalize(path string) string {
	return strings.ToLower(strings.TrimRight(path, "/"))
}
