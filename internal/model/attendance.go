package model

import "time"

type RSVPStatus string

const (
	StatusHadir      RSVPStatus = "Hadir"
	StatusTidakHadir RSVPStatus = "Tidak Hadir"
)

func (s RSVPStatus) Valid() bool {
	return s == StatusHadir || s == StatusTidakHadir
}

// Attendance is one guest's RSVP and, later, their check-in at the venue.
type Attendance struct {
	ID          uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Nama        string     `gorm:"column:nama;type:varchar(255);not null" json:"nama"`
	Komunitas   string     `gorm:"column:komunitas;type:varchar(255);not null" json:"komunitas"`
	WhatsApp    string     `gorm:"column:whatsapp;type:varchar(32);uniqueIndex:idx_attendance_whatsapp;not null" json:"whatsapp"`
	Status      RSVPStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`
	Alasan      *string    `gorm:"column:alasan;type:text" json:"alasan"`
	InviteToken *string    `gorm:"column:invite_token;type:varchar(64);uniqueIndex:idx_attendance_invite_token" json:"invite_token"`
	CheckinAt   *time.Time `gorm:"column:checkin_at" json:"checkin_at"`
	WASent      bool       `gorm:"column:wa_sent;not null;default:false" json:"wa_sent"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null" json:"created_at"`
}

func (Attendance) TableName() string { return "attendance" }

func (a *Attendance) CheckedIn() bool { return a.CheckinAt != nil }

// Token returns the invitation token or "" for legacy rows that never got one.
func (a *Attendance) Token() string {
	if a.InviteToken == nil {
		return ""
	}
	return *a.InviteToken
}
