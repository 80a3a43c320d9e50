package pcagent

type PowerState string

const (
	PowerOn      PowerState = "on"
	PowerOff     PowerState = "off"
	PowerOffline PowerState = "offline"
)

type FanMode string

const (
	FanModeAuto     FanMode = "auto"
	FanModeSilent   FanMode = "silent"
	FanModeFavorite FanMode = "favorite"
)

// Status is one decoded snapshot of the agent's status line.
type Status struct {
	DustLevel           float64
	Humidity            float64
	TemperatureC        float64
	Illuminance         float64
	FilterLifeRemaining float64
	Power               PowerState
	FanMode             FanMode
	// FavoriteLevel is only set when FanMode is favorite.
	FavoriteLevel string
}

func (s *Status) Offline() bool {
	return s.Power == PowerOffline
}
