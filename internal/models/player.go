package models

// MaxUsernameLength bounds the token subject stored for a player.
const MaxUsernameLength = 150

// Player is the persisted identity of an authenticated score submitter.
type Player struct {
	record
	username string
}

// NewPlayer creates an unsaved [Player].
func NewPlayer(sequence int, username string) *Player {
	return &Player{record: newRecord(sequence), username: username}
}

func (p *Player) Username() string { return p.username }

// Validate checks the username.
func (p *Player) Validate() error {
	return requireText("player", p.username, MaxUsernameLength)
}
