package models

import "time"

// Project is a Vercel project as returned by the projects endpoints.
type Project struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	AccountID       string    `json:"account_id"`
	CreatedAt       time.Time `json:"created_at"`
	Framework       string    `json:"framework,omitempty"`
	BuildCommand    string    `json:"build_command,omitempty"`
	DevCommand      string    `json:"dev_command,omitempty"`
	OutputDirectory string    `json:"output_directory,omitempty"`
}
