package monitor

import "time"

type Status struct {
	Store       bool      `json:"store"`
	StoreDriver string    `json:"storeDriver"`
	Redis       bool      `json:"redis"`
	Journal     bool      `json:"journal"`
	JournalSize int       `json:"journalSize"`
	LastCheck   time.Time `json:"lastCheck"`
}
