package engine

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-tms-sync/internal/domain"
)

var (
	ErrGatewayRequired   = errors.New("engine: translation gateway is required")
	ErrSourceRequired    = errors.New("engine: content source is required")
	ErrStoreRequired     = errors.New("engine: status store is required")
	ErrMapperRequired    = errors.New("engine: locale mapper is required")
	ErrNoDocument        = errors.New("engine: content has not been uploaded")
	ErrLocaleUnsupported = errors.New("engine: locale is not supported")
	ErrLocaleDisabled    = errors.New("engine: locale is disabled by profile")
	ErrTargetNotReady    = errors.New("engine: translation target is not ready")
)

// UploadBlockedError reports that the moderation gate vetoed an upload.
type UploadBlockedError struct {
	Ref   domain.EntityRef
	State string
}

func (e *UploadBlockedError) Error() string {
	return fmt.Sprintf("engine: upload of %s blocked by moderation state %q", e.Ref, e.State)
}
