package skill

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

var greetings = []string{
	"Hello! How can I help you today?",
	"Hi there! What can I do for you?",
	"Hey! Nice to hear from you!",
	"Greetings! How may I assist you?",
}

var howAreYouReplies = []string{
	"I'm doing great, thank you for asking! How are you?",
	"I'm excellent! Always ready to help. How about you?",
	"I'm functioning perfectly! What can I do for you?",
}

var thankReplies = []string{
	"You're welcome!",
	"Happy to help!",
	"My pleasure!",
	"Anytime!",
}

var nameReplies = []string{
	"I'm Hearth, your voice assistant!",
	"You can call me Hearth. I'm here to help!",
	"My name is Hearth. Nice to meet you!",
}

var helpReplies = []string{
	"I can help you with conversations, web searches, reminders, the weather, and your smart home devices. Just ask!",
	"I can search the web, set reminders, check the weather, control lights and temperature, and chat with you. What would you like to do?",
}

var jokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"What do you call a bear with no teeth? A gummy bear!",
	"Why did the scarecrow win an award? He was outstanding in his field!",
	"What do you call a fake noodle? An impasta!",
	"Why don't eggs tell jokes? They'd crack each other up!",
	"What did the ocean say to the beach? Nothing, it just waved!",
	"Why can't a bicycle stand on its own? It's two tired!",
}

// Conversation answers small talk, time and date queries, and jokes.
// Canned replies are picked uniformly at random; time and date read the
// system clock.
type Conversation struct {
	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewConversation creates the conversation skill.
func NewConversation() *Conversation {
	return &Conversation{Now: time.Now}
}

func (c *Conversation) Name() string { return "conversation" }

func (c *Conversation) Labels() []string {
	return []string{
		"conversation.greet",
		"conversation.how_are_you",
		"conversation.thank",
		"conversation.time",
		"conversation.date",
		"conversation.joke",
		"conversation.name",
		"conversation.help",
	}
}

func (c *Conversation) Handle(_ context.Context, req *Request) (*Response, error) {
	var text string
	switch req.Label {
	case "conversation.greet":
		text = pick(greetings)
	case "conversation.how_are_you":
		text = pick(howAreYouReplies)
	case "conversation.thank":
		text = pick(thankReplies)
	case "conversation.name":
		text = pick(nameReplies)
	case "conversation.help":
		text = pick(helpReplies)
	case "conversation.joke":
		text = pick(jokes)
	case "conversation.time":
		text = fmt.Sprintf("The current time is %s.", c.Now().Format("3:04 PM"))
	case "conversation.date":
		text = fmt.Sprintf("Today is %s.", c.Now().Format("Monday, January 2, 2006"))
	default:
		return nil, fmt.Errorf("conversation: unexpected label %q", req.Label)
	}
	return &Response{Text: text}, nil
}

// pick returns a uniformly random element.
func pick(options []string) string {
	return options[rand.IntN(len(options))]
}
