package config

// Resolution represents a window size option
type Resolution struct {
	Width  int
	Height int
	Label  string
}

// Role is how this process takes part in a match.
type Role string

const (
	RoleLocal Role = "local"
	RoleHost  Role = "host"
	RoleJoin  Role = "join"
)

// SettingsMenuConfig contains connect screen configuration
type SettingsMenuConfig struct {
	Resolutions            []Resolution
	DefaultResolutionIndex int
	Roles                  []Role
	InputDelays            []int
}

// SettingsMenu is the global settings menu configuration
var SettingsMenu SettingsMenuConfig

func init() {
	SettingsMenu = SettingsMenuConfig{
		Resolutions: []Resolution{
			{Width: 800, Height: 400, Label: "800 x 400"},
			{Width: 1200, Height: 600, Label: "1200 x 600"},
			{Width: 1600, Height: 800, Label: "1600 x 800"},
		},
		DefaultResolutionIndex: 0,
		Roles:                  []Role{RoleLocal, RoleHost, RoleJoin},
		InputDelays:            []int{0, 1, 2, 3, 4},
	}
}
