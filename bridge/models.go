package bridge

import "github.com/victorjacobs/go-pcagent/pcagent"

type sensorConfiguration struct {
	name       string
	class      string
	unit       string
	get        func(status *pcagent.Status) interface{}
	stateTopic string
}
