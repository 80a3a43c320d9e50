package bridge

import "github.com/victorjacobs/go-pcagent/pcagent"

var sensorDefinitions = [...]*sensorConfiguration{
	{
		name:  "PC Fine Dust Level",
		class: "pm25",
		unit:  "µg/m³",
		get:   func(status *pcagent.Status) interface{} { return status.DustLevel },
	},
	{
		name:  "PC Humidity",
		class: "humidity",
		unit:  "%",
		get:   func(status *pcagent.Status) interface{} { return status.Humidity },
	},
	{
		name:  "PC Temperature",
		class: "temperature",
		unit:  "°C",
		get:   func(status *pcagent.Status) interface{} { return status.TemperatureC },
	},
	{
		name:  "PC Illuminance",
		class: "illuminance",
		unit:  "lx",
		get:   func(status *pcagent.Status) interface{} { return status.Illuminance },
	},
	{
		name: "PC Filter Life",
		unit: "%",
		get:  func(status *pcagent.Status) interface{} { return status.FilterLifeRemaining },
	},
}
