package config

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/victorjacobs/go-pcagent/logger"
)

const HomeAssistantPrefix = "homeassistant"
const TopicPrefix = "pc"

const defaultPollInterval = 20

type Configuration struct {
	Agent    Agent  `mapstructure:"agent"`
	Mqtt     Mqtt   `mapstructure:"mqtt"`
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
}

type Agent struct {
	// Address of the PC agent, with or without the http:// scheme.
	Address string `mapstructure:"address"`
	// Poll interval in seconds.
	PollInterval int `mapstructure:"poll_interval"`
}

type Mqtt struct {
	IpAddress string `mapstructure:"ip_address"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
}

var v *viper.Viper

func Load(filename string) (*Configuration, error) {
	v = viper.New()
	v.SetConfigFile(filename)
	v.SetDefault("agent.poll_interval", defaultPollInterval)
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", logger.InfoLevel)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	configuration := &Configuration{}
	if err := v.Unmarshal(configuration); err != nil {
		return nil, err
	}

	if configuration.Agent.Address == "" {
		return nil, fmt.Errorf("%v is missing agent.address", filename)
	}

	return configuration, nil
}

// Watch re-reads the configuration file whenever it changes on disk and hands
// the result to onChange. Load must have been called first.
func Watch(log *logger.Logger, onChange func(*Configuration)) {
	v.OnConfigChange(func(_ fsnotify.Event) {
		configuration := &Configuration{}
		if err := v.Unmarshal(configuration); err != nil {
			log.Errorw("Failed to reload configuration", "err", err)
			return
		}

		if configuration.Agent.Address == "" {
			log.Errorw("Reloaded configuration is missing agent.address, ignoring")
			return
		}

		onChange(configuration)
	})
	v.WatchConfig()
}

func (a *Agent) PollDuration() time.Duration {
	interval := a.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	return time.Duration(interval) * time.Second
}

func (m *Mqtt) ClientOptions(log *logger.Logger) *mqtt.ClientOptions {
	return mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%v:1883", m.IpAddress)).
		SetUsername(m.Username).
		SetPassword(m.Password).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(client mqtt.Client, err error) {
			log.Warnw("MQTT connection lost", "err", err)
		}).
		SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
			log.Infow("MQTT reconnecting")
		})
}
