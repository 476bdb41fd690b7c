package session

import (
	"strings"
)

// Nickname word lists for anonymous identities. Both picks are uniform and
// independent.
var nicknameAdjectives = []string{
	"Brave", "Wise", "Kind", "Swift", "Gentle",
	"Bold", "Calm", "Bright", "Strong", "Hopeful",
}

var nicknameAnimals = []string{
	"Tiger", "Panda", "Eagle", "Deer", "Dolphin",
	"Wolf", "Butterfly", "Elephant", "Lion", "Dove",
}

const avatarBaseURL = "https://api.dicebear.com/7.x/initials/svg?seed="

func generateNickname(randInt func(n int) int) string {
	adjective := nicknameAdjectives[randInt(len(nicknameAdjectives))]
	animal := nicknameAnimals[randInt(len(nicknameAnimals))]
	return adjective + animal
}

// avatarURL derives a placeholder profile picture from the nickname initials.
func avatarURL(nickname string) string {
	return avatarBaseURL + initials(nickname)
}

func initials(nickname string) string {
	runes := []rune(nickname)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}
