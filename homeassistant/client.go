package homeassistant

import (
	"encoding/json"
	"fmt"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/victorjacobs/go-pcagent/config"
)

// Topics the fan entity and the bridge agree on.
const (
	StateTopic        = config.TopicPrefix + "/fan/state"
	CommandTopic      = config.TopicPrefix + "/fan/cmd"
	SpeedStateTopic   = config.TopicPrefix + "/fan/speed/state"
	SpeedCommandTopic = config.TopicPrefix + "/fan/speed/cmd"
	RefreshTopic      = config.TopicPrefix + "/refresh"
	AvailabilityTopic = config.TopicPrefix + "/availability"
)

type Client struct {
	mqtt mqtt.Client
}

func NewClient(mqtt mqtt.Client) *Client {
	return &Client{
		mqtt: mqtt,
	}
}

// RegisterFan publishes the discovery configuration for the PC fan entity.
// Fan speeds run 0 through 4, with 0 meaning automatic.
func (h *Client) RegisterFan() error {
	fanConfiguration, _ := json.Marshal(fanConfiguration{
		UniqueId:               "pc_fan",
		Name:                   "PC",
		StateTopic:             StateTopic,
		CommandTopic:           CommandTopic,
		PercentageStateTopic:   SpeedStateTopic,
		PercentageCommandTopic: SpeedCommandTopic,
		SpeedRangeMax:          4,
		AvailabilityTopic:      AvailabilityTopic,
	})

	if t := h.mqtt.Publish(config.HomeAssistantPrefix+"/fan/pc/config", 0, true, fanConfiguration); t.Wait() && t.Error() != nil {
		return t.Error()
	}

	return nil
}

// RegisterSensor publishes discovery configuration for one sensor and returns
// the state topic the bridge should publish values on.
func (h *Client) RegisterSensor(name string, class string, unit string) (string, error) {
	uniqueId := strings.Replace(strings.ToLower(name), " ", "_", -1)

	var stateTopic string
	if class == "" {
		stateTopic = fmt.Sprintf("%v/%v", config.TopicPrefix, uniqueId)
	} else {
		stateTopic = fmt.Sprintf("%v/%v/%v", config.TopicPrefix, class, uniqueId)
	}

	sensorConfiguration, _ := json.Marshal(sensorConfiguration{
		UniqueId:          uniqueId,
		Name:              name,
		DeviceClass:       class,
		StateTopic:        stateTopic,
		UnitOfMeasurement: unit,
		AvailabilityTopic: AvailabilityTopic,
	})

	configTopic := fmt.Sprintf("%v/sensor/%v/config", config.HomeAssistantPrefix, uniqueId)

	if t := h.mqtt.Publish(configTopic, 0, true, sensorConfiguration); t.Wait() && t.Error() != nil {
		return "", t.Error()
	}

	return stateTopic, nil
}
