package application

// Authorize permits a mutation only when the caller owns the resource.
func Authorize(identity Identity, ownerID int64) error {
	if identity.AccountID <= 0 || identity.AccountID != ownerID {
		return ErrForbidden
	}
	return nil
}
