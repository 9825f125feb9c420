package models

// Track is a flattened summary of one recommended track.
type Track struct {
	ID       string
	Title    string
	Artist   string // Artist is every credited artist, comma separated.
	Album    string
	Duration int // Duration in seconds
	ISRC     string
	URL      string
}

// Recommendations is one recommendation run: the seed artists as requested and the tracks returned.
type Recommendations struct {
	Seeds  [3]string
	Tracks []Track
}
