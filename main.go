package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/victorjacobs/go-pcagent/bridge"
	"github.com/victorjacobs/go-pcagent/config"
	"github.com/victorjacobs/go-pcagent/logger"
	"github.com/victorjacobs/go-pcagent/routes"
)

func main() {
	cfg, err := config.Load("pcagent.json")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("Error loading configuration", "err", err)
		return
	}

	log := logger.Get(cfg.LogLevel)

	b, err := bridge.New(cfg, log)
	if err != nil {
		log.Fatalw("Error setting up bridge", "err", err)
		return
	}

	mqttOpts := cfg.Mqtt.ClientOptions(log)
	// Configure MQTT subscriptions in the ConnectHandler to make sure they are set up after reconnect
	mqttOpts.SetOnConnectHandler(func(client mqtt.Client) {
		b.SubscribeToCommands(client)
	})

	mqttClient := mqtt.NewClient(mqttOpts)
	if t := mqttClient.Connect(); t.Wait() && t.Error() != nil {
		log.Fatalw("MQTT connection error", "err", t.Error())
		return
	}

	if err := b.RegisterFan(mqttClient); err != nil {
		log.Fatalw("Error registering fan", "err", err)
		return
	}

	if err := b.RegisterSensors(mqttClient); err != nil {
		log.Fatalw("Error registering sensors", "err", err)
		return
	}

	monitor := bridge.NewMonitor(func() {
		b.Poll(mqttClient)
	})
	monitor.Start(cfg.Agent.PollDuration())

	// A changed poll interval swaps the timer out, everything else only
	// takes effect on restart.
	config.Watch(log, func(newCfg *config.Configuration) {
		if newCfg.Agent.PollInterval == cfg.Agent.PollInterval {
			return
		}

		log.Infow("Poll interval changed, restarting monitor", "interval", newCfg.Agent.PollDuration())
		cfg.Agent.PollInterval = newCfg.Agent.PollInterval
		monitor.Start(newCfg.Agent.PollDuration())
	})

	router := httprouter.New()
	router.GET("/state", routes.State(b, log))
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(bridge.NewMetricsRegistry(), promhttp.HandlerOpts{}))

	go loopSafely(log, func() {
		http.ListenAndServe(":"+cfg.Port, router)
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("Shutting down")
	monitor.Stop()
	mqttClient.Disconnect(250)
}
