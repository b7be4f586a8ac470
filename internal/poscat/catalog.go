package poscat

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	nchess "github.com/corentings/chess/v2"
	yaml "gopkg.in/yaml.v3"
)

//go:embed positions.yaml
var defaultFiles embed.FS

// Position is one named study position. Best, when set, is the expected
// engine move in coordinate notation and must be legal in the position.
type Position struct {
	Key   string `yaml:"-"`
	FEN   string `yaml:"fen"`
	About string `yaml:"about"`
	Best  string `yaml:"best"`
}

// Catalog holds named positions loaded from embedded defaults plus an
// optional override directory. Every entry is validated at load time.
type Catalog struct {
	positions map[string]Position
}

type catalogFile struct {
	Positions map[string]Position `yaml:"positions"`
}

// New loads the embedded default positions and then applies overrides
// from dir if provided.
func New(overrideDir string) (*Catalog, error) {
	c := &Catalog{positions: make(map[string]Position)}

	raw, err := fs.ReadFile(defaultFiles, "positions.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded positions: %w", err)
	}
	if err := c.applyYAML(raw); err != nil {
		return nil, err
	}
	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read position dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := c.applyYAML(b); err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return nil
}

func (c *Catalog) applyYAML(b []byte) error {
	var file catalogFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return err
	}
	for key, pos := range file.Positions {
		pos.Key = key
		if err := validate(pos); err != nil {
			return fmt.Errorf("position %q: %w", key, err)
		}
		c.positions[key] = pos
	}
	return nil
}

func validate(pos Position) error {
	opt, err := nchess.FEN(pos.FEN)
	if err != nil {
		return fmt.Errorf("invalid fen: %w", err)
	}
	if strings.TrimSpace(pos.Best) == "" {
		return nil
	}
	g := nchess.NewGame(opt)
	mv, err := (nchess.UCINotation{}).Decode(g.Position(), pos.Best)
	if err != nil {
		return fmt.Errorf("invalid best move %q: %w", pos.Best, err)
	}
	want := strings.ToLower((nchess.UCINotation{}).Encode(g.Position(), mv))
	for _, legal := range g.Position().ValidMoves() {
		lm := legal
		if strings.EqualFold((nchess.UCINotation{}).Encode(g.Position(), &lm), want) {
			return nil
		}
	}
	return fmt.Errorf("best move %q is not legal", pos.Best)
}

// Get returns the position registered under key.
func (c *Catalog) Get(key string) (Position, bool) {
	pos, ok := c.positions[key]
	return pos, ok
}

// Keys lists the registered position keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.positions))
	for k := range c.positions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
