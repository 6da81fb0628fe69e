package domain

import "time"

// Tenant isolates one customer installation.
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Organization groups units and account holders under a tenant.
type Organization struct {
	ID        string
	Name      string
	TenantID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
