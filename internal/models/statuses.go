package models

type AccountStatus string
type AccountRole string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"

	AccountRolePractitioner AccountRole = "practitioner"
	AccountRoleAdmin        AccountRole = "admin"
)
