package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterData_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		character CharacterData
		wantErr   string
	}{
		{
			name:      "valid",
			character: CharacterData{Name: "Bob", Personality: "cheerful"},
		},
		{
			name:      "missing personality",
			character: CharacterData{Name: "Bob"},
			wantErr:   "personality",
		},
		{
			name:      "missing name",
			character: CharacterData{Personality: "cheerful"},
			wantErr:   "name",
		},
		{
			name:      "missing both",
			character: CharacterData{},
			wantErr:   "name, personality",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.character.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "character_data requires fields")
		})
	}
}

func TestBuildCharacterPrompt(t *testing.T) {
	t.Parallel()

	character := CharacterData{
		Name:        "Bob",
		Personality: "a grumpy but kind blacksmith",
		Scenario:    "a medieval village forge",
	}

	history := []ChatMessage{
		{Role: "user", Content: "Good morning!"},
		{Role: "assistant", Content: "Hmph. Morning."},
	}

	prompt := BuildCharacterPrompt(character, "Alice", history, "Can you fix my sword?")

	assert.Contains(t, prompt, "You are Bob. a grumpy but kind blacksmith")
	assert.Contains(t, prompt, "Scenario: a medieval village forge")
	assert.Contains(t, prompt, "Alice: Good morning!")
	assert.Contains(t, prompt, "Bob: Hmph. Morning.")
	assert.Contains(t, prompt, "Alice: Can you fix my sword?")
	assert.True(t, len(prompt) > 0 && prompt[len(prompt)-1] == ':',
		"prompt must end with an open cue for the character")
}

func TestBuildCharacterPrompt_DefaultUserName(t *testing.T) {
	t.Parallel()

	character := CharacterData{Name: "Bob", Personality: "terse"}

	prompt := BuildCharacterPrompt(character, "", nil, "hi")

	assert.Contains(t, prompt, "User: hi")
	assert.Contains(t, prompt, "respond to User")
}

func TestBuildCharacterPrompt_GreetingOnlyWithoutHistory(t *testing.T) {
	t.Parallel()

	character := CharacterData{Name: "Bob", Personality: "terse", Greeting: "Welcome, traveler."}

	fresh := BuildCharacterPrompt(character, "Alice", nil, "hi")
	assert.Contains(t, fresh, "Bob: Welcome, traveler.")

	continued := BuildCharacterPrompt(character, "Alice", []ChatMessage{{Role: "user", Content: "hey"}}, "hi")
	assert.NotContains(t, continued, "Welcome, traveler.")
}
