// Package intent classifies utterances against a fixed catalog of intents
// using semantic similarity over sentence embeddings.
package intent

import (
	"fmt"
	"strings"
)

// Entry is one intent in the catalog: a label with its exemplar phrases.
// The catalog is immutable after startup; declaration order is significant
// because it breaks confidence ties deterministically.
type Entry struct {
	Label     string
	Exemplars []string
}

// Labels returns every catalog label in declaration order.
func Labels(entries []Entry) []string {
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}
	return labels
}

// ValidateCatalog checks that every label is unique and every entry carries
// at least one exemplar. A violation is a startup configuration error.
func ValidateCatalog(entries []Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("intent catalog is empty")
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Label) == "" {
			return fmt.Errorf("intent catalog: entry with empty label")
		}
		if seen[e.Label] {
			return fmt.Errorf("intent catalog: duplicate label %q", e.Label)
		}
		seen[e.Label] = true
		if len(e.Exemplars) == 0 {
			return fmt.Errorf("intent catalog: label %q has no exemplars", e.Label)
		}
		for _, ex := range e.Exemplars {
			if strings.TrimSpace(ex) == "" {
				return fmt.Errorf("intent catalog: label %q has an empty exemplar", e.Label)
			}
		}
	}
	return nil
}

// DefaultCatalog returns the built-in intent catalog.
func DefaultCatalog() []Entry {
	return []Entry{
		{Label: "conversation.greet", Exemplars: []string{
			"hello", "hi", "hey", "good morning", "good afternoon",
			"good evening", "greetings", "howdy", "what's up", "yo",
		}},
		{Label: "conversation.how_are_you", Exemplars: []string{
			"how are you", "how are you doing", "how do you feel",
			"are you ok", "what's up with you", "how's it going",
		}},
		{Label: "conversation.thank", Exemplars: []string{
			"thank you", "thanks", "thank you very much", "thanks a lot",
			"appreciate it", "cheers", "thx",
		}},
		{Label: "conversation.time", Exemplars: []string{
			"what time is it", "current time", "tell me the time",
			"what's the time", "time please", "do you have the time",
		}},
		{Label: "conversation.date", Exemplars: []string{
			"what's the date", "what day is it", "tell me the date",
			"what's today's date", "current date",
		}},
		{Label: "conversation.joke", Exemplars: []string{
			"tell me a joke", "make me laugh", "say something funny",
			"do you know any jokes", "joke please", "tell a joke",
		}},
		{Label: "conversation.name", Exemplars: []string{
			"what's your name", "who are you", "your name please",
			"what should i call you", "introduce yourself", "tell me your name",
		}},
		{Label: "conversation.help", Exemplars: []string{
			"help me", "what can you do", "your capabilities",
			"how do you work", "what are your features", "help",
		}},
		{Label: "web_search.query", Exemplars: []string{
			"search for", "look up", "find information about",
			"google", "search the web", "what is", "who is",
			"tell me about", "search wikipedia",
		}},
		{Label: "reminder.create", Exemplars: []string{
			"remind me", "set a reminder", "create reminder",
			"don't let me forget", "reminder to", "remember to",
		}},
		{Label: "reminder.list", Exemplars: []string{
			"list reminders", "show reminders", "what are my reminders",
			"do i have any reminders", "my reminders",
		}},
		{Label: "smart_home.turn_on", Exemplars: []string{
			"turn on the light", "turn on light", "lights on",
			"switch on the light", "enable light", "light on",
			"turn the light on", "turn lights on", "switch lights on",
			"turn on living room light", "turn on bedroom light",
		}},
		{Label: "smart_home.turn_off", Exemplars: []string{
			"turn off the light", "turn off light", "lights off",
			"switch off the light", "disable light", "light off",
			"turn the light off", "turn lights off", "switch lights off",
			"turn off living room light", "turn off bedroom light",
		}},
		{Label: "smart_home.set_temperature", Exemplars: []string{
			"set temperature", "change temperature", "adjust temperature",
			"make it warmer", "make it cooler", "set thermostat",
			"set temperature to 22 degrees", "set the thermostat to 20",
		}},
		{Label: "smart_home.status", Exemplars: []string{
			"device status", "what's the status", "are lights on",
			"check devices", "home status", "show devices",
		}},
		{Label: "weather.current", Exemplars: []string{
			"what's the weather", "how's the weather", "is it raining",
			"will it rain today", "temperature outside",
			"is it sunny", "weather today", "will it snow",
			"what's the temperature", "how hot is it", "how cold is it",
			"weather in london", "tell me the weather",
			"check the weather", "weather report",
		}},
		{Label: "weather.forecast", Exemplars: []string{
			"weather forecast", "forecast for tomorrow", "what's the forecast",
			"weather this week", "will it rain tomorrow", "weather for the weekend",
			"forecast for the next few days", "how's the weather tomorrow",
		}},
		{Label: "exit.goodbye", Exemplars: []string{
			"bye", "goodbye", "see you", "farewell", "take care",
			"see you later", "catch you later", "gotta go", "bye bye",
			"exit", "quit", "stop",
		}},
	}
}
