package component

// AtlasSprite selects one cell of a texture atlas. FlipX doubles as facing
// for players: true means facing left.
type AtlasSprite struct {
	Atlas string
	Index int
	FlipX bool
	FlipY bool
}

var AtlasSpriteComponent = NewComponent[AtlasSprite]()
