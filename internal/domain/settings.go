package domain

// UserSettings stores per-user notification and due-date threshold tuning.
// Thresholds are in days remaining.
type UserSettings struct {
	UserID           string
	NotificationDays int
	RedThreshold     int
	OrangeThreshold  int
}

// DefaultSettings returns the values applied when a user never saved settings.
func DefaultSettings(userID string) UserSettings {
	return UserSettings{
		UserID:           userID,
		NotificationDays: 7,
		RedThreshold:     10,
		OrangeThreshold:  25,
	}
}
