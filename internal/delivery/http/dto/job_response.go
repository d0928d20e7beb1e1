package dto

type JobResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Salary      *string  `json:"salary"`
	SalaryText  string   `json:"salary_text"`
	PostedAt    string   `json:"posted_at"`
	Tags        []string `json:"tags"`
}

type ListStateResponse struct {
	Query    string   `json:"query"`
	Location string   `json:"location"`
	Type     string   `json:"type"`
	Tags     []string `json:"tags"`
	Sort     string   `json:"sort"`
}

type JobListResponse struct {
	Items   []JobResponse     `json:"items"`
	Total   int               `json:"total"`
	Visible int               `json:"visible"`
	HasMore bool              `json:"has_more"`
	State   ListStateResponse `json:"state"`
}

type FacetsResponse struct {
	Locations []string `json:"locations"`
	Types     []string `json:"types"`
	Tags      []string `json:"tags"`
}

type ApplyResponse struct {
	JobID       string `json:"job_id"`
	Status      string `json:"status"`
	Message     string `json:"message"`
	RequestedAt string `json:"requested_at"`
}
