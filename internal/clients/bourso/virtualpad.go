package bourso

import "strings"

// Keystroke is one virtual keypad press. ID is the opaque per-session key
// identifier, Val the password character it stands for, Rank the 1-based
// position of that character in the password. The keystroke list, not the
// plaintext password, is what crosses the wire.
type Keystroke struct {
	ID   string `json:"id"`
	Val  string `json:"val"`
	Rank int    `json:"rank"`
}

// passwordKeystrokes transcribes a plaintext password into keystrokes
// against the session's keypad keys. For each password character in order
// it selects the first key identifier containing that character; key
// identifiers may stand for multi-character glyph clusters.
//
// A character with no matching key fails the whole transcription: a partial
// keystroke list would be indistinguishable from a valid shorter password
// on the remote side.
func passwordKeystrokes(keys []string, password string) ([]Keystroke, error) {
	strokes := make([]Keystroke, 0, len(password))
	rank := 0
	for _, c := range password {
		rank++
		id := ""
		for _, key := range keys {
			if strings.ContainsRune(key, c) {
				id = key
				break
			}
		}
		if id == "" {
			return nil, &SlotNotFoundError{Char: c}
		}
		strokes = append(strokes, Keystroke{ID: id, Val: string(c), Rank: rank})
	}
	return strokes, nil
}
