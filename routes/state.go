package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/victorjacobs/go-pcagent/bridge"
	"github.com/victorjacobs/go-pcagent/logger"
	"github.com/victorjacobs/go-pcagent/pcagent"
)

type stateResponse struct {
	Power         string    `json:"power"`
	FanMode       string    `json:"fan_mode,omitempty"`
	FavoriteLevel string    `json:"favorite_level,omitempty"`
	DustLevel     float64   `json:"dust_level"`
	Humidity      float64   `json:"humidity"`
	TemperatureC  float64   `json:"temperature_c"`
	Illuminance   float64   `json:"illuminance"`
	FilterLife    float64   `json:"filter_life"`
	LastRefreshed time.Time `json:"last_refreshed"`
}

type cache struct {
	lastRefreshed int64
	status        *pcagent.Status
}

// State serves the last agent status as JSON, refreshing through the bridge
// at most every 30 seconds.
func State(b *bridge.Bridge, log *logger.Logger) func(http.ResponseWriter, *http.Request, httprouter.Params) {
	c := &cache{}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		now := time.Now().UnixMilli()

		if c.lastRefreshed+30_000 < now || c.status == nil {
			status, err := b.FetchStatus()
			if err != nil {
				log.Errorw("Failed to get agent status", "err", err)
				http.Error(w, "agent unreachable", http.StatusBadGateway)

				return
			}

			c.lastRefreshed = now
			c.status = status

			log.Debugw("Refreshed web cache")
		}

		resp := stateResponse{
			Power:         string(c.status.Power),
			FanMode:       string(c.status.FanMode),
			FavoriteLevel: c.status.FavoriteLevel,
			DustLevel:     c.status.DustLevel,
			Humidity:      c.status.Humidity,
			TemperatureC:  c.status.TemperatureC,
			Illuminance:   c.status.Illuminance,
			FilterLife:    c.status.FilterLifeRemaining,
			LastRefreshed: time.Unix(0, c.lastRefreshed*int64(time.Millisecond)),
		}

		w.Header().Set("Content-Type", "application/json")
		if marshaled, err := json.Marshal(resp); err != nil {
			log.Errorw("Error marshaling state response", "err", err)
		} else {
			w.Write(marshaled)
		}
	}
}
