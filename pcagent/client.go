package pcagent

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/victorjacobs/go-pcagent/logger"
)

// ErrMalformedStatus marks a response that arrived but did not decode. It is
// distinct from transport failures: the agent answered, just with garbage.
var ErrMalformedStatus = errors.New("malformed status line")

// statusFieldCount is the number of fields in a status line, excluding the
// trailing favorite level the agent only sends in favorite mode.
const statusFieldCount = 7

type Client struct {
	address string
	http    *http.Client
	log     *logger.Logger
}

func NewClient(address string, log *logger.Logger) *Client {
	if !strings.HasPrefix(address, "http://") && !strings.HasPrefix(address, "https://") {
		address = "http://" + address
	}

	return &Client{
		address: strings.TrimSuffix(address, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// GetStatus queries the agent and decodes its status line. A transport or
// non-200 failure means the agent is unreachable; a decode failure means it
// answered garbage. Callers treat the two differently.
func (c *Client) GetStatus() (*Status, error) {
	line, err := c.post("/status", "")
	if err != nil {
		return nil, err
	}

	return parseStatus(line)
}

// SetPower pushes the desired power state to the agent.
func (c *Client) SetPower(on bool) error {
	value := "off"
	if on {
		value = "on"
	}

	_, err := c.post("/status", value)
	return err
}

// SetFanSpeed pushes a fan speed on the 0-4 scale to the agent.
func (c *Client) SetFanSpeed(speed int) error {
	if speed < 0 || speed > 4 {
		return fmt.Errorf("invalid fan speed, tried to set %v", speed)
	}

	_, err := c.post("/status", strconv.Itoa(speed))
	return err
}

func (c *Client) post(path string, body string) (string, error) {
	c.log.Debugw("Agent request", "path", path, "body", body)

	resp, err := c.http.Post(c.address+path, "text/plain", strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("agent request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("agent returned %v", resp.Status)
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading agent response: %w", err)
	}

	return strings.TrimSpace(string(responseBody)), nil
}

// parseStatus decodes one whitespace-separated status line:
//
//	<dust> <humidity> <temperature> <illuminance> <filter> <power> <fanMode> [favoriteLevel]
//
// When the power field reads "offline" the agent is a stub answering for a
// powered-down PC and no other field is meaningful.
func parseStatus(line string) (*Status, error) {
	fields := strings.Fields(line)

	if len(fields) >= 6 && fields[5] == string(PowerOffline) {
		return &Status{Power: PowerOffline}, nil
	}

	if len(fields) < statusFieldCount {
		return nil, fmt.Errorf("%w: got %v fields, expected %v", ErrMalformedStatus, len(fields), statusFieldCount)
	}

	values := make([]float64, 5)
	for i := range values {
		value, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: field %v %q is not a number", ErrMalformedStatus, i+1, fields[i])
		}
		values[i] = value
	}

	power := PowerState(fields[5])
	if power != PowerOn && power != PowerOff {
		return nil, fmt.Errorf("%w: unknown power state %q", ErrMalformedStatus, fields[5])
	}

	mode := FanMode(fields[6])
	if mode != FanModeAuto && mode != FanModeSilent && mode != FanModeFavorite {
		return nil, fmt.Errorf("%w: unknown fan mode %q", ErrMalformedStatus, fields[6])
	}

	status := &Status{
		DustLevel:           values[0],
		Humidity:            values[1],
		TemperatureC:        values[2],
		Illuminance:         values[3],
		FilterLifeRemaining: values[4],
		Power:               power,
		FanMode:             mode,
	}

	if mode == FanModeFavorite {
		if len(fields) < statusFieldCount+1 {
			return nil, fmt.Errorf("%w: fan mode is favorite but no favorite level", ErrMalformedStatus)
		}
		status.FavoriteLevel = fields[7]
	}

	return status, nil
}
