package skill

import (
	"context"
	"fmt"
	"strings"

	"github.com/nadzzz/hearth/internal/session"
)

// SmartHome controls the simulated device registry: power, thermostat
// temperature, and status reports.
type SmartHome struct {
	minTemp int
	maxTemp int
}

// NewSmartHome creates the smart home skill with the valid thermostat range.
func NewSmartHome(minTemp, maxTemp int) *SmartHome {
	return &SmartHome{minTemp: minTemp, maxTemp: maxTemp}
}

func (s *SmartHome) Name() string { return "smart_home" }

func (s *SmartHome) Labels() []string {
	return []string{
		"smart_home.turn_on",
		"smart_home.turn_off",
		"smart_home.set_temperature",
		"smart_home.status",
	}
}

func (s *SmartHome) Handle(_ context.Context, req *Request) (*Response, error) {
	switch req.Label {
	case "smart_home.turn_on":
		return s.setPower(req, "on")
	case "smart_home.turn_off":
		return s.setPower(req, "off")
	case "smart_home.set_temperature":
		return s.setTemperature(req)
	case "smart_home.status":
		return s.status(req)
	default:
		return nil, fmt.Errorf("smart_home: unexpected label %q", req.Label)
	}
}

func (s *SmartHome) setPower(req *Request, power string) (*Response, error) {
	name := req.Slots.Get("device")

	// No device named: act on every light, like "turn the lights off".
	if name == "" {
		count := 0
		for _, d := range req.Session.Devices() {
			if d.Kind == "light" {
				applyPower(d, power)
				count++
			}
		}
		if count == 0 {
			return &Response{Text: "I couldn't find any lights to control."}, nil
		}
		return &Response{Text: fmt.Sprintf("Turned %s %d %s.", power, count, plural(count, "light", "lights"))}, nil
	}

	dev, ok := req.Session.Device(name)
	if !ok {
		return &Response{
			Text: fmt.Sprintf("I couldn't find a device called %s. I know about: %s.",
				name, strings.Join(req.Session.DeviceNames(), ", ")),
		}, nil
	}

	applyPower(dev, power)
	req.Session.LastDevice = dev.Name
	if dev.Kind == "door" {
		return &Response{Text: fmt.Sprintf("%s the %s.", doorVerb(power), dev.Name)}, nil
	}
	return &Response{Text: fmt.Sprintf("Turned %s the %s.", power, dev.Name)}, nil
}

func (s *SmartHome) setTemperature(req *Request) (*Response, error) {
	target, ok := req.Slots.Int("number")
	if !ok {
		return &Response{Text: "What temperature would you like to set?"}, nil
	}
	if target < s.minTemp || target > s.maxTemp {
		return &Response{
			Text: fmt.Sprintf("Temperature should be between %d and %d degrees Celsius.", s.minTemp, s.maxTemp),
		}, nil
	}

	for _, d := range req.Session.Devices() {
		if d.Kind == "thermostat" {
			d.Temperature = target
			d.Power = "on"
			req.Session.LastDevice = d.Name
			return &Response{Text: fmt.Sprintf("Set the %s to %d degrees Celsius.", d.Name, target)}, nil
		}
	}
	return &Response{Text: "I couldn't find a thermostat."}, nil
}

// status enumerates every device in name order, so repeated calls without
// intervening mutation produce identical text.
func (s *SmartHome) status(req *Request) (*Response, error) {
	devices := req.Session.Devices()
	if len(devices) == 0 {
		return &Response{Text: "You have no devices registered."}, nil
	}

	parts := make([]string, len(devices))
	for i, d := range devices {
		switch d.Kind {
		case "thermostat":
			parts[i] = fmt.Sprintf("the %s is %s at %d degrees", d.Name, d.Power, d.Temperature)
		case "door":
			parts[i] = fmt.Sprintf("the %s is %s", d.Name, doorState(d.Power))
		default:
			parts[i] = fmt.Sprintf("the %s is %s", d.Name, d.Power)
		}
	}
	return &Response{Text: "Here's your home status: " + strings.Join(parts, ", ") + "."}, nil
}

func applyPower(d *session.Device, power string) {
	d.Power = power
	if d.Kind == "light" {
		if power == "on" {
			d.Brightness = 100
		} else {
			d.Brightness = 0
		}
	}
}

// Doors reuse the power field: on means open.
func doorVerb(power string) string {
	if power == "on" {
		return "Opened"
	}
	return "Closed"
}

func doorState(power string) string {
	if power == "on" {
		return "open"
	}
	return "closed"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
