package model

import "time"

// StaffDevice holds the push targets registered for one staff member's
// device. A device carries whichever of the three channels it supports; the
// dispatcher treats these rows as read-only lookups.
type StaffDevice struct {
	ID              string `gorm:"primaryKey;size:36"`
	StaffID         string `gorm:"index;size:64;not null"`
	ExpoPushToken   string `gorm:"size:256"`
	FCMToken        string `gorm:"size:512"`
	WebPushEndpoint string `gorm:"index;size:512"`
	WebPushP256DH   string `gorm:"column:web_push_p256dh;size:256"`
	WebPushAuth     string `gorm:"size:256"`
	Active          bool   `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasTarget reports whether the device has at least one usable push channel.
func (d *StaffDevice) HasTarget() bool {
	return d.Active && (d.ExpoPushToken != "" || d.FCMToken != "" || d.WebPushEndpoint != "")
}
