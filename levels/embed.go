package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
)

//go:embed *.json
var LevelsFS embed.FS

const (
	EntityElement     = "element"
	EntityPlayerSpawn = "player_spawn"
)

// Level is a tile grid plus placed entities. Each layer is a row-major
// Width*Height array where a non-zero value is a tile.
type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  float64     `json:"tile_size"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
}

// Entity is a placement. Element placements carry the metadata path in
// Props["element"].
type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// Element returns the metadata path of an element placement.
func (e Entity) Element() (string, bool) {
	if e.Type != EntityElement {
		return "", false
	}
	path, ok := e.Props["element"].(string)
	return path, ok && path != ""
}

// Rect is an axis-aligned rectangle in world units, top-left origin.
type Rect struct {
	X, Y, W, H float64
}

// PixelSize returns the level extent in world units.
func (l *Level) PixelSize() (float64, float64) {
	if l == nil {
		return 0, 0
	}
	return float64(l.Width) * l.TileSize, float64(l.Height) * l.TileSize
}

// Solids merges horizontal runs of physics tiles into rectangles.
func (l *Level) Solids() []Rect {
	if l == nil || l.Width <= 0 || l.Height <= 0 || l.TileSize <= 0 {
		return nil
	}
	filled := make([]bool, l.Width*l.Height)
	for i, layer := range l.Layers {
		if i >= len(l.LayerMeta) || !l.LayerMeta[i].Physics {
			continue
		}
		for idx, tile := range layer {
			if tile != 0 && idx < len(filled) {
				filled[idx] = true
			}
		}
	}

	var out []Rect
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; {
			if !filled[y*l.Width+x] {
				x++
				continue
			}
			start := x
			for x < l.Width && filled[y*l.Width+x] {
				x++
			}
			out = append(out, Rect{
				X: float64(start) * l.TileSize,
				Y: float64(y) * l.TileSize,
				W: float64(x-start) * l.TileSize,
				H: l.TileSize,
			})
		}
	}
	return out
}

func (l *Level) validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("level size %dx%d", l.Width, l.Height)
	}
	if l.TileSize <= 0 {
		return fmt.Errorf("tile_size %v", l.TileSize)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("layer %d has %d tiles, want %d", i, len(layer), l.Width*l.Height)
		}
	}
	return nil
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return ParseLevel(data)
}

func ParseLevel(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.validate(); err != nil {
		return nil, fmt.Errorf("invalid level: %w", err)
	}
	return &lvl, nil
}
