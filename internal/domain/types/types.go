// Package types contains common types used across the application
package types

// Entry is one row of the season leaderboard.
type Entry struct {
	Rank    int    `json:"rank"`
	Name    string `json:"name"`
	Goals   int    `json:"goals"`
	Assists int    `json:"assists"`
	Motm    int    `json:"motm"`
	Total   int    `json:"total"`
}
