package repositories

// Models lists every GORM model in migration order.
func Models() []interface{} {
	return []interface{}{
		&DBUser{},
		&DBCompanyProfile{},
		&DBJobCategory{},
		&DBJobTag{},
		&DBJob{},
		&DBJobApplication{},
		&DBNotification{},
		&DBEmailToken{},
		&DBEmailOTP{},
	}
}
