package homeassistant

type sensorConfiguration struct {
	UniqueId          string `json:"unique_id"`
	Name              string `json:"name"`
	DeviceClass       string `json:"device_class,omitempty"`
	StateTopic        string `json:"state_topic"`
	UnitOfMeasurement string `json:"unit_of_measurement"`
	AvailabilityTopic string `json:"availability_topic"`
}

type fanConfiguration struct {
	UniqueId               string `json:"unique_id"`
	Name                   string `json:"name"`
	StateTopic             string `json:"state_topic"`
	CommandTopic           string `json:"command_topic"`
	PercentageStateTopic   string `json:"percentage_state_topic"`
	PercentageCommandTopic string `json:"percentage_command_topic"`
	SpeedRangeMax          int    `json:"speed_range_max"`
	AvailabilityTopic      string `json:"availability_topic"`
}
