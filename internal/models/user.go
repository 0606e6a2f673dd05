package models

// User is a row of the users table.
type User struct {
	UserID            string `db:"user_id"`
	Name              string `db:"name"`
	ReportingCurrency string `db:"reporting_currency"`
	AuditFields
}
