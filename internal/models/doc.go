// Package models defines the display types the CLI renders recommendations into.
//
// The relay itself never decodes tracks: HTTP responses carry the upstream JSON
// unmodified. These types exist only for the terminal formats:
//   - [Track] : Flattened song metadata (title, artists, album, duration, ISRC)
//   - [Recommendations] : The seed artists and the tracks they produced
package models
