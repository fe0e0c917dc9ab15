package models

// All lists every model for AutoMigrate, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Admin{},
		&User{},
		&RegistrationRequest{},
		&Complaint{},
		&MessLeave{},
		&Invoice{},
		&Announcement{},
		&GuestRoom{},
		&RoomBooking{},
		&Attendance{},
	}
}
