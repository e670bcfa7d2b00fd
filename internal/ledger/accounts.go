package ledger

import (
	"context"
	"strings"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/scope"
	"fleetdesk/internal/store"
)

// AccountUpdate carries the owner-editable profile fields. Email is not
// editable here: it is bound to the credential.
type AccountUpdate struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// UpdateAccount edits a staff profile. Owner only.
func (l Ledger) UpdateAccount(ctx context.Context, accountID string, in AccountUpdate) error {
	if !scope.CanManageAccounts(l.Actor().Role) {
		return domain.AuthorizationError{Op: "update account", Msg: "owner role required"}
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return err
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "required"}
	}
	fields := map[string]any{
		"name":  strings.TrimSpace(in.Name),
		"phone": strings.TrimSpace(in.Phone),
		"role":  role,
	}
	if err := l.Store.Collection(store.ColAccounts).Update(ctx, accountID, fields); err != nil {
		return domain.RemoteWriteError{Op: "update account", Err: err}
	}
	return nil
}

// DeleteAccount removes a staff profile and its credential. Owner only.
// Keeping an owner from deleting their own account is the caller's
// responsibility; the data layer does not special-case it.
func (l Ledger) DeleteAccount(ctx context.Context, accountID string) error {
	if !scope.CanManageAccounts(l.Actor().Role) {
		return domain.AuthorizationError{Op: "delete account", Msg: "owner role required"}
	}
	if err := l.Store.Collection(store.ColAccounts).Delete(ctx, accountID); err != nil {
		return domain.RemoteWriteError{Op: "delete account", Err: err}
	}
	// best effort: a credential without a profile is treated as orphaned
	// by the auth provider anyway
	_ = l.Store.Collection(store.ColCredentials).Delete(ctx, accountID)
	return nil
}
