package dispatch

import (
	"strings"
	"unicode"

	"github.com/nadzzz/hearth/internal/session"
	"github.com/nadzzz/hearth/internal/skill"
)

// reminderTriggers are tried longest-first so "remind me to" wins over
// "remind me".
var reminderTriggers = []string{
	"don't let me forget to",
	"dont let me forget to",
	"remind me to",
	"reminder to",
	"remember to",
	"remind me",
}

var searchTriggers = []string{
	"tell me more about",
	"tell me about",
	"search for",
	"look up",
	"what is a",
	"what is an",
	"what is",
	"what's",
	"what are",
	"who is",
	"who's",
	"who was",
	"where is",
	"when is",
	"when was",
	"why is",
	"how does",
	"search",
}

var forecastWords = []string{"forecast", "tomorrow", "next", "week", "weekend", "later"}

// Extract pulls the slots a label's handler expects out of the raw
// utterance. Extraction is deliberately keyword-based: the classifier has
// already committed to a label, so slots only need to locate the variable
// parts of the phrasing.
func Extract(label, utterance string, sess *session.State) skill.Slots {
	slots := skill.Slots{}
	lower := strings.ToLower(strings.TrimSpace(utterance))

	switch label {
	case "reminder.create":
		slots["text"] = afterTrigger(lower, reminderTriggers)

	case "web_search.query":
		// Follow-up references ("tell me more", "what about that") leave
		// the query empty so the skill can reuse the previous one.
		if q := afterTrigger(lower, searchTriggers); !isFollowUpRef(q) {
			slots["query"] = q
		}

	case "smart_home.turn_on", "smart_home.turn_off":
		// A named but unregistered device must still reach the skill so it
		// can answer with the unknown-device error; only device-less
		// phrasings ("turn the lights off") get the all-lights behavior.
		if device := matchDevice(lower, sess); device != "" {
			slots["device"] = device
		} else if target := powerTarget(lower); target != "" {
			slots["device"] = target
		}

	case "smart_home.set_temperature":
		if device := matchDevice(lower, sess); device != "" {
			slots["device"] = device
		}
		if n := firstNumber(lower); n != "" {
			slots["number"] = n
		}

	case "weather.current", "weather.forecast":
		if city := afterWord(lower, "in"); city != "" {
			slots["city"] = city
		}
		for _, w := range forecastWords {
			if containsWord(lower, w) {
				slots["forecast"] = "true"
				break
			}
		}
	}
	return slots
}

// afterTrigger returns the utterance remainder after the first matching
// trigger phrase, or the whole utterance when none matches.
func afterTrigger(utterance string, triggers []string) string {
	for _, trigger := range triggers {
		if idx := strings.Index(utterance, trigger); idx >= 0 {
			rest := strings.TrimSpace(utterance[idx+len(trigger):])
			rest = strings.TrimRight(rest, "?.!")
			if rest != "" {
				return rest
			}
		}
	}
	return strings.TrimRight(utterance, "?.!")
}

// matchDevice finds the longest known device name that appears in the
// utterance. "it" falls back to the last device the user addressed.
func matchDevice(utterance string, sess *session.State) string {
	best := ""
	for _, name := range sess.DeviceNames() {
		if strings.Contains(utterance, strings.ToLower(name)) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" && containsWord(utterance, "it") && sess.LastDevice != "" {
		return sess.LastDevice
	}
	return best
}

// powerTarget returns the device phrase an on/off command names once the
// command words are stripped. Bare references to lights in general, and
// pronouns, yield "" so the skill falls back to the all-lights branch.
func powerTarget(utterance string) string {
	var kept []string
	for _, f := range strings.Fields(strings.TrimRight(utterance, "?.!")) {
		switch strings.Trim(f, ",?.!") {
		case "turn", "switch", "power", "on", "off", "the", "my", "a",
			"all", "please", "can", "you", "it", "them":
			continue
		}
		kept = append(kept, strings.Trim(f, ",?.!"))
	}

	target := strings.Join(kept, " ")
	switch target {
	case "", "light", "lights", "lamp", "lamps", "everything":
		return ""
	}
	return target
}

// firstNumber returns the first run of digits in the utterance.
func firstNumber(utterance string) string {
	for _, field := range strings.Fields(utterance) {
		digits := strings.TrimFunc(field, func(r rune) bool { return !unicode.IsDigit(r) })
		if digits != "" && isDigits(digits) {
			return digits
		}
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// afterWord returns the words following a standalone occurrence of word,
// with trailing punctuation and forecast qualifiers stripped.
func afterWord(utterance, word string) string {
	fields := strings.Fields(strings.TrimRight(utterance, "?.!"))
	for i, f := range fields {
		if f == word && i+1 < len(fields) {
			rest := fields[i+1:]
			for len(rest) > 0 && isForecastWord(rest[len(rest)-1]) {
				rest = rest[:len(rest)-1]
			}
			return strings.Join(rest, " ")
		}
	}
	return ""
}

// isFollowUpRef reports whether the extracted query is a bare reference to
// the previous turn rather than a new topic.
func isFollowUpRef(q string) bool {
	switch q {
	case "that", "this", "it", "them", "more", "tell me more":
		return true
	}
	return false
}

func isForecastWord(w string) bool {
	for _, f := range forecastWords {
		if w == f {
			return true
		}
	}
	return false
}

func containsWord(utterance, word string) bool {
	for _, f := range strings.Fields(strings.TrimRight(utterance, "?.!")) {
		if strings.Trim(f, "?.!,") == word {
			return true
		}
	}
	return false
}
