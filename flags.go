package main

import "flag"

// Command-line flags. Flags that mirror a config key override the file
// when they are set explicitly.
var (
	// configPathFlag points at an optional YAML settings file.
	configPathFlag = flag.String("config", "", "path to a YAML config file")

	// recordDefaultPGO triggers a scripted walk to produce default.pgo.
	recordDefaultPGO = flag.Bool("record-default-pgo", false, "walk randomly for 15s while capturing default.pgo")

	// fovDegreesFlag overrides the full cone angle.
	fovDegreesFlag = flag.Float64("fov-deg", 0, "full field of view angle in degrees (0 keeps the config value)")

	// samplesFlag overrides the number of rays across the cone.
	samplesFlag = flag.Int("samples", 0, "rays across the cone (0 keeps the config value)")

	// raycastFlag selects the ray caster backend.
	raycastFlag = flag.String("raycast", "", "raycast backend: grid or opencl (empty keeps the config value)")

	seedFlag = flag.Int64("seed", 0, "wall layout seed (0 keeps the config value)")

	// showGizmoFlag draws the cone centre and edge rays.
	showGizmoFlag = flag.Bool("gizmo", false, "draw the vision cone rays")

	// mouseLookFlag turns the actor toward the cursor.
	mouseLookFlag = flag.Bool("mouse-look", true, "turn the actor toward the mouse cursor")

	// debugFlag enables the FPS and frame timing overlay.
	debugFlag = flag.Bool("debug", false, "show FPS and frame timing overlay")

	verboseFlag = flag.Bool("v", false, "log FOV and renderer events")
)
