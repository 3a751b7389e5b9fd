package main

import (
	"image/color"
	"time"
)

// Demo constants that are not worth a config key.
const (
	defaultTPS        = 60.0
	actorRadius       = 6.0
	actorNoseLength   = 12.0
	mouseLookLerp     = 0.2
	gizmoWidth        = 1.0
	pgoRecordDuration = 15 * time.Second
)

var (
	wallColor  = color.RGBA{R: 30, G: 40, B: 80, A: 255}
	actorColor = color.RGBA{R: 230, G: 60, B: 40, A: 255}
	gizmoColor = color.RGBA{G: 200, A: 255}
)
