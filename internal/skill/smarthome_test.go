package skill

import (
	"context"
	"strings"
	"testing"
)

func TestSmartHomeTurnOnKnownDevice(t *testing.T) {
	sh := NewSmartHome(10, 35)
	sess := newTestSession()

	resp, err := sh.Handle(context.Background(), &Request{
		Label:   "smart_home.turn_on",
		Slots:   Slots{"device": "living room light"},
		Session: sess,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(resp.Text, "living room light") {
		t.Errorf("response %q does not name the device", resp.Text)
	}

	dev, _ := sess.Device("living room light")
	if dev.Power != "on" || dev.Brightness != 100 {
		t.Errorf("device not switched on: %+v", dev)
	}
	if sess.LastDevice != "living room light" {
		t.Errorf("LastDevice = %q", sess.LastDevice)
	}
}

func TestSmartHomeUnknownDeviceNoMutation(t *testing.T) {
	sh := NewSmartHome(10, 35)
	sess := newTestSession()

	before := make(map[string]string)
	for _, d := range sess.Devices() {
		before[d.Name] = d.Power
	}

	resp, err := sh.Handle(context.Background(), &Request{
		Label:   "smart_home.turn_on",
		Slots:   Slots{"device": "kitchen light"},
		Session: sess,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(resp.Text, "couldn't find a device called kitchen light") {
		t.Errorf("expected unknown-device error, got %q", resp.Text)
	}

	for _, d := range sess.Devices() {
		if d.Power != before[d.Name] {
			t.Errorf("device %s mutated on unknown-device error", d.Name)
		}
	}
	if sess.LastDevice != "" {
		t.Errorf("LastDevice mutated on error: %q", sess.LastDevice)
	}
}

func TestSmartHomeNoDeviceActsOnAllLights(t *testing.T) {
	sh := NewSmartHome(10, 35)
	sess := newTestSession()

	resp, err := sh.Handle(context.Background(), &Request{
		Label:   "smart_home.turn_on",
		Slots:   Slots{},
		Session: sess,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(resp.Text, "2 lights") {
		t.Errorf("expected both lights switched, got %q", resp.Text)
	}

	for _, name := range []string{"living room light", "bedroom light"} {
		d, _ := sess.Device(name)
		if d.Power != "on" {
			t.Errorf("%s not switched on", name)
		}
	}
	d, _ := sess.Device("thermostat")
	if d.Power != "off" {
		t.Error("thermostat must not be touched by an all-lights command")
	}
}

func TestSmartHomeSetTemperatureBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantApply  bool
		wantInText string
	}{
		{"one below minimum rejected", "9", false, "between 10 and 35"},
		{"minimum accepted", "10", true, "10 degrees"},
		{"one inside maximum accepted", "34", true, "34 degrees"},
		{"maximum accepted", "35", true, "35 degrees"},
		{"one above maximum rejected", "36", false, "between 10 and 35"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh := NewSmartHome(10, 35)
			sess := newTestSession()

			resp, err := sh.Handle(context.Background(), &Request{
				Label:   "smart_home.set_temperature",
				Slots:   Slots{"number": tt.value},
				Session: sess,
			})
			if err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if !strings.Contains(resp.Text, tt.wantInText) {
				t.Errorf("response %q does not contain %q", resp.Text, tt.wantInText)
			}

			d, _ := sess.Device("thermostat")
			if tt.wantApply && d.Temperature == 20 {
				t.Error("temperature not applied")
			}
			if !tt.wantApply && (d.Temperature != 20 || d.Power != "off") {
				t.Errorf("out-of-range value mutated the thermostat: %+v", d)
			}
		})
	}
}

func TestSmartHomeSetTemperatureMissingNumber(t *testing.T) {
	sh := NewSmartHome(10, 35)
	resp, err := sh.Handle(context.Background(), &Request{
		Label:   "smart_home.set_temperature",
		Slots:   Slots{},
		Session: newTestSession(),
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(resp.Text, "What temperature") {
		t.Errorf("expected clarifying question, got %q", resp.Text)
	}
}

func TestSmartHomeStatusDeterministic(t *testing.T) {
	sh := NewSmartHome(10, 35)
	sess := newTestSession()

	first, err := sh.Handle(context.Background(), &Request{Label: "smart_home.status", Session: sess})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	second, err := sh.Handle(context.Background(), &Request{Label: "smart_home.status", Session: sess})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if first.Text != second.Text {
		t.Errorf("status not idempotent:\n%s\n%s", first.Text, second.Text)
	}

	for _, want := range []string{"living room light", "bedroom light", "thermostat", "20 degrees", "garage door", "closed"} {
		if !strings.Contains(first.Text, want) {
			t.Errorf("status %q does not mention %q", first.Text, want)
		}
	}
}

func TestSmartHomeDoorUsesOpenClose(t *testing.T) {
	sh := NewSmartHome(10, 35)
	sess := newTestSession()

	resp, err := sh.Handle(context.Background(), &Request{
		Label:   "smart_home.turn_on",
		Slots:   Slots{"device": "garage door"},
		Session: sess,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(resp.Text, "Opened") {
		t.Errorf("expected door verb, got %q", resp.Text)
	}
}
