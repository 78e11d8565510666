package component

// AudioEvent asks the audio layer to play a sound once.
type AudioEvent struct {
	Sound  string  `json:"sound"`
	Volume float64 `json:"volume"`
}

// CameraTrauma adds shake to the camera.
type CameraTrauma struct {
	Magnitude float32 `json:"magnitude"`
}

// PlayerDamaged reports a player overlapping a damage region.
type PlayerDamaged struct {
	Player uint64 `json:"player"`
	Index  int    `json:"index"`
	Region uint64 `json:"region"`
}

type ExplosionCause string

const (
	ExplosionFuse ExplosionCause = "fuse"
	ExplosionKick ExplosionCause = "kick"
)

// Explosion reports a detonated bomb.
type Explosion struct {
	Bomb    uint64         `json:"bomb"`
	Spawner uint64         `json:"spawner"`
	X       float64        `json:"x"`
	Y       float64        `json:"y"`
	Cause   ExplosionCause `json:"cause"`
}
