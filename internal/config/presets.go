package config

// Presets are the ready-made scenes exposed by the CLI.
var Presets = map[string]*Config{
	"pool": {
		Scene: "pool", Resolution: 100, Dx: 0.025, FrameDt: 1.0 / 120.0,
		Frames: 240, CFL: 3.0, Band: 5, Order: 3, Gravity: 1.0,
	},
	"dam-break": {
		Scene: "dam-break", Resolution: 100, Dx: 0.025, FrameDt: 1.0 / 120.0,
		Frames: 360, CFL: 3.0, Band: 5, Order: 3, Gravity: 1.0,
		VolumeCorrection: true,
	},
	"droplet": {
		Scene: "droplet", Resolution: 100, Dx: 0.025, FrameDt: 1.0 / 120.0,
		Frames: 360, CFL: 3.0, Band: 10, Order: 3,
		SurfaceTension: 10.0, EnforceBubbles: true, TrackAir: true,
	},
	"viscous-pour": {
		Scene: "dam-break", Resolution: 100, Dx: 0.025, FrameDt: 1.0 / 120.0,
		Frames: 360, CFL: 3.0, Band: 5, Order: 3, Gravity: 1.0,
		Viscosity: 5.0, VolumeCorrection: true,
	},
	"bubble-tank": {
		Scene: "bubble", Resolution: 100, Dx: 0.025, FrameDt: 1.0 / 120.0,
		Frames: 360, CFL: 3.0, Band: 10, Order: 3, Gravity: 1.0,
		EnforceBubbles: true, TrackAir: true, SurfaceTension: 10.0,
	},
}
