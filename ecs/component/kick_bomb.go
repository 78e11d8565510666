package component

import (
	"time"

	"github.com/jakecoffman/cp"
)

// IdleKickBomb marks a kick bomb that has not been lit.
type IdleKickBomb struct{}

var IdleKickBombComponent = NewComponent[IdleKickBomb]()

// LitKickBomb holds the two countdowns of a lit bomb. ArmDelay gates kick
// detonation, FuseTime detonates on its own.
type LitKickBomb struct {
	ArmDelay Timer
	FuseTime Timer
}

var LitKickBombComponent = NewComponent[LitKickBomb]()

// KickBombSettings is the element metadata resolved once at hydration. The
// idle and lit passes read it instead of the prefab store, so reloading the
// element only affects bombs spawned afterwards.
type KickBombSettings struct {
	FinAnim      string
	GrabOffset   cp.Vector
	KickVelocity cp.Vector

	ArmDelay        time.Duration
	FuseTime        time.Duration
	FuseSound       string
	FuseSoundVolume float64

	DamageRegionSize     cp.Vector
	DamageRegionLifetime time.Duration
	ExplosionAtlas       string
	ExplosionLifetime    time.Duration
	ExplosionFrames      int
	ExplosionFPS         float64
	ExplosionSound       string
	ExplosionVolume      float64
}

var KickBombSettingsComponent = NewComponent[KickBombSettings]()
