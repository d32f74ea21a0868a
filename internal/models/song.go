package models

// Song is a persisted song. It exists only while at least one [Chart] references it.
type Song struct {
	record
	SongMetadata
}

// NewSong creates an unsaved [Song] with the given metadata.
func NewSong(sequence int, meta SongMetadata) *Song {
	return &Song{record: newRecord(sequence), SongMetadata: meta}
}

// Metadata returns the identifying (title, artist) pair.
func (s *Song) Metadata() SongMetadata {
	return s.SongMetadata
}

// Validate checks the song metadata.
func (s *Song) Validate() error {
	return s.SongMetadata.Validate()
}
