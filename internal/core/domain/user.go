package domain

// User represents a user of the application in the domain.
type User struct {
	UserID            string `json:"userID"` // Primary Key, the JWT subject
	Name              string `json:"name"`
	ReportingCurrency string `json:"reportingCurrency"` // Currency totals and budgets are shown in
	AuditFields
}

// CredentialScope distinguishes end-user database access from the elevated service credential.
type CredentialScope string

const (
	CredentialScopeUser    CredentialScope = "user"
	CredentialScopeService CredentialScope = "service"
)
