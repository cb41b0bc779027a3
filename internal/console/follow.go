package console

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/service/messaging"
)

// Follow writes every entry consumed from queue to w as a JSON line until
// ctx is done. A failed write nacks the entry.
func Follow(ctx context.Context, queue messaging.Queue[model.Entry], w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		message, err := queue.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if err = encoder.Encode(message.T()); err != nil {
			_ = message.Nack(err)
			continue
		}
		_ = message.Ack()
	}
}
