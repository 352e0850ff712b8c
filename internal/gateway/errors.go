package gateway

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// RemoteError is the single error shape every failed remote call surfaces:
// the procedure that failed plus the remote message verbatim, ready to show
// the user. No retries happen at this layer.
type RemoteError struct {
	Proc    string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

func wrapRemote(proc string, err error) error {
	return &RemoteError{Proc: proc, Message: remoteMessage(err)}
}

// remoteMessage extracts the database's own message when the failure came
// from the remote side, falling back to the transport error text.
func remoteMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}
