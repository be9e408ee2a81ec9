package models

import "time"

// DefaultTimezone is preselected for new users.
const DefaultTimezone = "GMT-05:00"

// Timezones are the offsets offered on the settings page.
var Timezones = []TimezoneOption{
	{Value: "GMT-12:00", Label: "(GMT-12:00) International Date Line West"},
	{Value: "GMT-05:00", Label: "(GMT-05:00) Eastern Time"},
	{Value: "GMT-08:00", Label: "(GMT-08:00) Pacific Time"},
	{Value: "GMT+00:00", Label: "(GMT+00:00) London"},
	{Value: "GMT+01:00", Label: "(GMT+01:00) Berlin"},
	{Value: "GMT+05:30", Label: "(GMT+05:30) Mumbai"},
	{Value: "GMT+08:00", Label: "(GMT+08:00) Beijing"},
	{Value: "GMT+09:00", Label: "(GMT+09:00) Tokyo"},
}

type TimezoneOption struct {
	Value string
	Label string
}

// IsKnownTimezone reports whether tz is one of Timezones.
func IsKnownTimezone(tz string) bool {
	for _, opt := range Timezones {
		if opt.Value == tz {
			return true
		}
	}
	return false
}

type ProfileSettings struct {
	Name     string `form:"name" json:"name" validate:"required,max=255"`
	Email    string `form:"email" json:"email" validate:"required,email,max=255"`
	Company  string `form:"company" json:"company" validate:"max=255"`
	Timezone string `form:"timezone" json:"timezone" validate:"required,timezone_offset"`
}

type NotificationSettings struct {
	Email bool `form:"email_notifications" json:"email"`
	SMS   bool `form:"sms_notifications" json:"sms"`
	Push  bool `form:"push_notifications" json:"push"`
}

// UserSettings are the per-user preferences kept by the dashboard.
type UserSettings struct {
	UserID        string               `json:"userId"`
	Profile       ProfileSettings      `json:"profile"`
	Notifications NotificationSettings `json:"notifications"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// DefaultUserSettings seeds settings from the signed-in user.
func DefaultUserSettings(user User) UserSettings {
	return UserSettings{
		UserID: user.ID,
		Profile: ProfileSettings{
			Name:     user.Name,
			Email:    user.Email,
			Timezone: DefaultTimezone,
		},
		Notifications: NotificationSettings{
			Email: true,
			SMS:   false,
			Push:  true,
		},
	}
}
