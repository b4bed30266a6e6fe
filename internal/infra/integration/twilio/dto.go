package twilio

type messageResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type AccountInfo struct {
	SID          string `json:"sid"`
	FriendlyName string `json:"friendly_name"`
	Status       string `json:"status"` // active, suspended, closed
	Type         string `json:"type"`
}
