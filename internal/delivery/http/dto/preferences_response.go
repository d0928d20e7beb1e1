package dto

type SavedResponse struct {
	IDs   []string      `json:"ids"`
	Jobs  []JobResponse `json:"jobs,omitempty"`
	Saved *bool         `json:"saved,omitempty"`
}

type ThemeRequest struct {
	Theme string `json:"theme"`
}

type ThemeResponse struct {
	Theme string `json:"theme"`
}
