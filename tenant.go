package mssqlkit

import (
	"context"
	"errors"
)

// TenantContextKey is the context key for tenant ID.
type TenantContextKey struct{}

// ErrNoTenant is returned when a tenant ID is required but not found in context.
var ErrNoTenant = errors.New("mssqlkit: tenant ID not found in context")

// WithTenant adds tenant ID to the context.
//
// Usage:
//
//	ctx = mssqlkit.WithTenant(ctx, "tenant-123")
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, TenantContextKey{}, tenantID)
}

// GetTenant extracts tenant ID from the context.
// Returns empty string if not found.
func GetTenant(ctx context.Context) string {
	if v := ctx.Value(TenantContextKey{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequireTenant extracts tenant ID from context or returns an error.
func RequireTenant(ctx context.Context) (string, error) {
	tenantID := GetTenant(ctx)
	if tenantID == "" {
		return "", ErrNoTenant
	}
	return tenantID, nil
}

// Tenants provisions one database per tenant, deriving each database name
// from a common prefix plus the tenant ID. The usual arrangement for
// integration test isolation and catalog-per-tenant deployments.
type Tenants struct {
	db     *MSSQLKit
	prefix string
	policy RetryPolicy
}

// Tenants returns a provisioner that derives database names as prefix plus
// tenant ID and runs lifecycle operations under the given retry policy.
//
// Usage:
//
//	tenants := db.Tenants("app_", mssqlkit.DefaultRetryPolicy())
//	created, err := tenants.Provision(ctx, "acme")  // database app_acme
func (db *MSSQLKit) Tenants(prefix string, policy RetryPolicy) *Tenants {
	return &Tenants{
		db:     db,
		prefix: prefix,
		policy: policy,
	}
}

// DatabaseName derives and validates the database name for a tenant. Tenant
// IDs that produce an invalid identifier are rejected here, before any
// statement is built.
func (t *Tenants) DatabaseName(tenantID string) (DatabaseName, error) {
	return NormalizeDatabaseName(t.prefix + tenantID)
}

// Exists reports whether the tenant's database exists
func (t *Tenants) Exists(ctx context.Context, tenantID string) (bool, error) {
	name, err := t.DatabaseName(tenantID)
	if err != nil {
		return false, err
	}
	return t.db.DatabaseExists(ctx, name)
}

// Provision creates the tenant's database when absent, reporting whether
// it was created
func (t *Tenants) Provision(ctx context.Context, tenantID string) (bool, error) {
	name, err := t.DatabaseName(tenantID)
	if err != nil {
		return false, err
	}
	return t.db.TryCreateDatabase(ctx, name, t.policy)
}

// Deprovision drops the tenant's database when present, reporting whether
// a drop occurred
func (t *Tenants) Deprovision(ctx context.Context, tenantID string) (bool, error) {
	name, err := t.DatabaseName(tenantID)
	if err != nil {
		return false, err
	}
	return t.db.TryDropDatabase(ctx, name, t.policy)
}

// Reset drops and recreates the tenant's database, leaving it existing and
// empty
func (t *Tenants) Reset(ctx context.Context, tenantID string) (bool, error) {
	name, err := t.DatabaseName(tenantID)
	if err != nil {
		return false, err
	}
	return t.db.DropAndRecreateDatabase(ctx, name, t.policy)
}

// ProvisionFromContext creates the database for the tenant named by the
// context
func (t *Tenants) ProvisionFromContext(ctx context.Context) (bool, error) {
	tenantID, err := RequireTenant(ctx)
	if err != nil {
		return false, err
	}
	return t.Provision(ctx, tenantID)
}
