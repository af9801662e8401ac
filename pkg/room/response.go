package room

import (
	"errors"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/matchmaking"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/playable"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/betting"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/table"
	"github.com/sirupsen/logrus"
)

// genericError is sent in place of errors that are not safe to show to a player
const genericError = "something went wrong, please try again"

// UserMessage returns the message a player may see for err
// The second value is false when err had to be replaced by a generic message.
func UserMessage(err error) (string, bool) {
	var rejected betting.RejectedAction
	var userError table.UserError
	var conflict table.SeatConflict
	var queueError matchmaking.UserError

	switch {
	case errors.As(err, &rejected):
		return rejected.Error(), true
	case errors.As(err, &userError):
		return userError.Error(), true
	case errors.As(err, &conflict):
		return conflict.Error(), true
	case errors.As(err, &queueError):
		return queueError.Error(), true
	}

	return genericError, false
}

func newErrorResponse(ctx string, err error) *playable.Response {
	msg, safe := UserMessage(err)
	if !safe {
		logrus.WithError(err).Error("could not handle client message")
	}

	return playable.Error(ctx, msg)
}

func newTableStateResponse(s *table.Snapshot, viewer string) *playable.Response {
	return &playable.Response{
		Key:  "tableState",
		Data: Redact(s, viewer),
	}
}
