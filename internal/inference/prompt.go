package inference

import (
	"fmt"
	"strings"
)

// CharacterData describes a persona used to frame a generation
// request. Name and Personality are required; everything else is
// optional color.
type CharacterData struct {
	// Name is the character's name.
	Name string `json:"name"`

	// Personality describes how the character behaves.
	Personality string `json:"personality"`

	// Scenario optionally sets the scene for the conversation.
	Scenario string `json:"scenario,omitempty"`

	// Greeting optionally provides the character's opening line.
	Greeting string `json:"greeting,omitempty"`
}

// Validate checks that the required persona fields are present.
func (c *CharacterData) Validate() error {
	var missing []string
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if c.Personality == "" {
		missing = append(missing, "personality")
	}
	if len(missing) > 0 {
		return fmt.Errorf("character_data requires fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ChatMessage is one turn of prior conversation.
type ChatMessage struct {
	// Role identifies the speaker, typically "user" or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// DefaultUserName is used when the caller does not name the user.
const DefaultUserName = "User"

// BuildCharacterPrompt composes a single prompt from a persona, prior
// conversation history, and the user's new message. The output frames
// the model as the character, replays the history with speaker tags,
// and ends with an open cue for the character's reply.
func BuildCharacterPrompt(character CharacterData, userName string, history []ChatMessage, prompt string) string {
	if userName == "" {
		userName = DefaultUserName
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("You are %s. %s\n", character.Name, character.Personality))
	if character.Scenario != "" {
		b.WriteString(fmt.Sprintf("Scenario: %s\n", character.Scenario))
	}
	b.WriteString(fmt.Sprintf("Stay in character as %s and respond to %s.\n\n", character.Name, userName))

	if character.Greeting != "" && len(history) == 0 {
		b.WriteString(fmt.Sprintf("%s: %s\n", character.Name, character.Greeting))
	}

	for _, msg := range history {
		speaker := character.Name
		if strings.EqualFold(msg.Role, "user") {
			speaker = userName
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", speaker, msg.Content))
	}

	b.WriteString(fmt.Sprintf("%s: %s\n", userName, prompt))
	b.WriteString(fmt.Sprintf("%s:", character.Name))

	return b.String()
}
