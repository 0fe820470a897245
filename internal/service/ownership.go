package service

import (
	"github.com/google/uuid"

	"cobranca/internal/domain"
)

// assertOwnedBy fails with domain.ErrForbidden when entity resolves to a tenant
// other than tenantID. Entities without a link to any tenant pass.
func assertOwnedBy(entity domain.TenantOwned, tenantID uuid.UUID) error {
	owner, linked := entity.OwnerTenantID()
	if !linked {
		return nil
	}
	if owner != tenantID {
		return domain.ErrForbidden
	}
	return nil
}
