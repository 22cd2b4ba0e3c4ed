package domain

type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type WatchReminderMailData struct {
	FullName    string `json:"fullName"`
	VesselName  string `json:"vesselName"`
	SlotStart   string `json:"slotStart"`
	LeadMinutes int32  `json:"leadMinutes"`
}

type OverdueAlertMailData struct {
	FullName       string `json:"fullName"`
	VesselName     string `json:"vesselName"`
	OverdueMinutes int32  `json:"overdueMinutes"`
}
