package assistant

import (
	"context"

	"github.com/rs/zerolog"
)

// Fallback tries the primary responder and degrades to the backup, so the
// chat keeps working when the network or the key does not.
type Fallback struct {
	Primary Responder
	Backup  Responder
	Log     zerolog.Logger
}

func (f Fallback) Respond(ctx context.Context, query string, fc Context) (string, error) {
	text, err := f.Primary.Respond(ctx, query, fc)
	if err == nil {
		return text, nil
	}
	f.Log.Warn().Err(err).Msg("primary responder failed, using rules")
	return f.Backup.Respond(ctx, query, fc)
}
