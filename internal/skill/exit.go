package skill

import (
	"context"
	"math/rand/v2"
)

var farewells = []string{
	"Goodbye! Have a great day!",
	"See you later! Take care!",
	"Bye! Come back soon!",
	"Farewell! Stay safe!",
}

// Exit speaks a farewell and requests loop termination. It is the only
// skill allowed to terminate the conversation.
type Exit struct{}

// NewExit creates the exit skill.
func NewExit() *Exit { return &Exit{} }

func (e *Exit) Name() string { return "exit" }

func (e *Exit) Labels() []string { return []string{"exit.goodbye"} }

func (e *Exit) Handle(_ context.Context, _ *Request) (*Response, error) {
	return &Response{
		Text:      farewells[rand.IntN(len(farewells))],
		Terminate: true,
	}, nil
}
