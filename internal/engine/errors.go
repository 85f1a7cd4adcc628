package engine

import (
	"fmt"

	"zootopia/internal/apperrors"
	"zootopia/internal/catalog"
)

// NotOwnedError indicates the action needs a companion the user has not
// unlocked yet. It should be shown to the user.
type NotOwnedError struct {
	Companion catalog.CompanionType
}

func (e NotOwnedError) Error() string {
	return fmt.Sprintf("companion '%s' is not unlocked yet", e.Companion)
}

func (e NotOwnedError) Is(target error) bool { return target == apperrors.ErrNotFound }

// translate maps backend failures into the error taxonomy. Errors already in it
// pass through; anything else is reported as the store being unavailable.
func translate(op string, err error) error {
	return apperrors.Unavailable(op, err)
}

func parseCompanion(t catalog.CompanionType) (catalog.CompanionDef, error) {
	def, ok := catalog.Companion(t)
	if !ok {
		return catalog.CompanionDef{}, apperrors.ValidationError{Field: "companion", Reason: fmt.Sprintf("%q is not a known companion", t)}
	}
	return def, nil
}
