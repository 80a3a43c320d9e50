package bridge

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/victorjacobs/go-pcagent/config"
	"github.com/victorjacobs/go-pcagent/homeassistant"
	"github.com/victorjacobs/go-pcagent/logger"
	"github.com/victorjacobs/go-pcagent/pcagent"
)

// favoriteLevelSpeeds maps agent favorite levels to fan speeds. Unknown
// levels emit no speed at all.
var favoriteLevelSpeeds = map[string]int{
	"8":  2,
	"12": 3,
	"16": 4,
}

type Bridge struct {
	cfg   *config.Configuration
	agent *pcagent.Client
	log   *logger.Logger

	// mu serializes polls and command handling, which arrive on different
	// goroutines (timer, MQTT callbacks).
	mu          sync.Mutex
	lastPower   pcagent.PowerState
	lastFanMode pcagent.FanMode
}

func New(cfg *config.Configuration, log *logger.Logger) (*Bridge, error) {
	agent := pcagent.NewClient(cfg.Agent.Address, log)

	// The PC may legitimately be powered down at startup, so an unreachable
	// agent is logged rather than fatal.
	if status, err := agent.GetStatus(); err != nil {
		log.Warnw("PC agent unreachable at startup", "address", cfg.Agent.Address, "err", err)
	} else if status.Offline() {
		log.Infow("PC agent reachable, PC reported offline", "address", cfg.Agent.Address)
	} else {
		log.Infow("Connected to PC agent", "address", cfg.Agent.Address, "power", status.Power, "fanMode", status.FanMode)
	}

	return &Bridge{
		cfg:   cfg,
		agent: agent,
		log:   log,
	}, nil
}

func (b *Bridge) RegisterFan(mqttClient mqtt.Client) error {
	homeAssistantClient := homeassistant.NewClient(mqttClient)

	return homeAssistantClient.RegisterFan()
}

func (b *Bridge) RegisterSensors(mqttClient mqtt.Client) error {
	homeAssistantClient := homeassistant.NewClient(mqttClient)

	for _, sensorConfig := range sensorDefinitions {
		if stateTopic, err := homeAssistantClient.RegisterSensor(sensorConfig.name, sensorConfig.class, sensorConfig.unit); err != nil {
			return err
		} else {
			b.log.Infow("Registered sensor", "name", sensorConfig.name)
			sensorConfig.stateTopic = stateTopic
		}
	}

	return nil
}

// SubscribeToCommands installs the MQTT command handlers. Called from the
// MQTT ConnectHandler so the subscriptions survive reconnects.
func (b *Bridge) SubscribeToCommands(mqttClient mqtt.Client) {
	if t := mqttClient.Subscribe(homeassistant.CommandTopic, 0, func(client mqtt.Client, msg mqtt.Message) {
		b.handlePower(client, string(msg.Payload()))
	}); t.Wait() && t.Error() != nil {
		b.log.Errorw("MQTT subscribe error", "topic", homeassistant.CommandTopic, "err", t.Error())
	}

	if t := mqttClient.Subscribe(homeassistant.SpeedCommandTopic, 0, func(client mqtt.Client, msg mqtt.Message) {
		b.handleFanSpeed(client, string(msg.Payload()))
	}); t.Wait() && t.Error() != nil {
		b.log.Errorw("MQTT subscribe error", "topic", homeassistant.SpeedCommandTopic, "err", t.Error())
	}

	if t := mqttClient.Subscribe(homeassistant.RefreshTopic, 0, func(client mqtt.Client, msg mqtt.Message) {
		commandsTotal.WithLabelValues("refresh").Inc()
		b.Poll(client)
	}); t.Wait() && t.Error() != nil {
		b.log.Errorw("MQTT subscribe error", "topic", homeassistant.RefreshTopic, "err", t.Error())
	}
}

// handlePower applies a power command: publish the new state optimistically,
// then push it to the agent. A failed push is not rolled back, the next poll
// resyncs from the agent.
func (b *Bridge) handlePower(mqttClient mqtt.Client, payload string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	commandsTotal.WithLabelValues("power").Inc()

	on := payload == "ON"

	if t := mqttClient.Publish(homeassistant.StateTopic, 0, true, payload); t.Wait() && t.Error() != nil {
		b.log.Errorw("MQTT publishing failed", "err", t.Error())
	}

	if on {
		b.lastPower = pcagent.PowerOn
	} else {
		b.lastPower = pcagent.PowerOff
	}

	if err := b.agent.SetPower(on); err != nil {
		b.log.Errorw("Failed to push power state to agent", "err", err)
	}
}

func (b *Bridge) handleFanSpeed(mqttClient mqtt.Client, payload string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	commandsTotal.WithLabelValues("fan_speed").Inc()

	speed, err := strconv.Atoi(payload)
	if err != nil || speed < 0 || speed > 4 {
		b.log.Errorw("Ignoring invalid fan speed command", "payload", payload)
		return
	}

	if t := mqttClient.Publish(homeassistant.SpeedStateTopic, 0, true, payload); t.Wait() && t.Error() != nil {
		b.log.Errorw("MQTT publishing failed", "err", t.Error())
	}

	if err := b.agent.SetFanSpeed(speed); err != nil {
		b.log.Errorw("Failed to push fan speed to agent", "err", err)
	}
}

// Poll runs one synchronizer pass: fetch, decode, publish. Sensor values are
// published every pass since they fluctuate anyway; power state and fan speed
// only when they changed since the last pass. The favorite-level speed is the
// exception and publishes whenever the agent reports favorite mode.
func (b *Bridge) Poll(mqttClient mqtt.Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pollsTotal.Inc()

	status, err := b.agent.GetStatus()
	if errors.Is(err, pcagent.ErrMalformedStatus) {
		// The agent answered, so the PC is reachable. Drop the response
		// and wait for the next poll.
		pollFailuresTotal.Inc()
		b.log.Warnw("Dropping malformed agent response", "err", err)
		return
	} else if err != nil {
		pollFailuresTotal.Inc()
		b.log.Warnw("Poll failed", "err", err)
		b.publishAvailability(mqttClient, false)
		return
	}

	if status.Offline() {
		b.publishAvailability(mqttClient, false)
		return
	}

	b.publishAvailability(mqttClient, true)

	for _, sensorConfig := range sensorDefinitions {
		value := fmt.Sprintf("%v", sensorConfig.get(status))

		if t := mqttClient.Publish(sensorConfig.stateTopic, 0, true, value); t.Wait() && t.Error() != nil {
			b.log.Errorw("MQTT publishing failed", "topic", sensorConfig.stateTopic, "err", t.Error())
			continue
		}
	}

	if b.lastPower != status.Power {
		var stateMessage string
		if status.Power == pcagent.PowerOn {
			stateMessage = "ON"
		} else {
			stateMessage = "OFF"
		}

		if t := mqttClient.Publish(homeassistant.StateTopic, 0, true, stateMessage); t.Wait() && t.Error() != nil {
			b.log.Errorw("MQTT publishing failed", "err", t.Error())
		}
	}

	if b.lastFanMode != status.FanMode {
		switch status.FanMode {
		case pcagent.FanModeAuto:
			b.publishFanSpeed(mqttClient, 0)
		case pcagent.FanModeSilent:
			b.publishFanSpeed(mqttClient, 1)
		}
	}

	// Favorite mode publishes on every pass, deliberately skipping the
	// change check: the level can move without the mode changing.
	if status.FanMode == pcagent.FanModeFavorite {
		if speed, ok := favoriteLevelSpeeds[status.FavoriteLevel]; ok {
			b.publishFanSpeed(mqttClient, speed)
		} else {
			b.log.Warnw("Unknown favorite level", "level", status.FavoriteLevel)
		}
	}

	b.lastPower = status.Power
	b.lastFanMode = status.FanMode
}

func (b *Bridge) publishFanSpeed(mqttClient mqtt.Client, speed int) {
	if t := mqttClient.Publish(homeassistant.SpeedStateTopic, 0, true, strconv.Itoa(speed)); t.Wait() && t.Error() != nil {
		b.log.Errorw("MQTT publishing failed", "err", t.Error())
	}
}

func (b *Bridge) publishAvailability(mqttClient mqtt.Client, online bool) {
	payload := "offline"
	if online {
		payload = "online"
		agentOnline.Set(1)
	} else {
		agentOnline.Set(0)
	}

	if t := mqttClient.Publish(homeassistant.AvailabilityTopic, 0, true, payload); t.Wait() && t.Error() != nil {
		b.log.Errorw("MQTT publishing failed", "err", t.Error())
	}
}

// FetchStatus queries the agent directly, bypassing the poll loop. Used by
// the web routes.
func (b *Bridge) FetchStatus() (*pcagent.Status, error) {
	return b.agent.GetStatus()
}
