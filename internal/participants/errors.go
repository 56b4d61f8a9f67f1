package participants

import pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"

func errAlreadyJoined() error {
	return pkgerrors.New(pkgerrors.CodeAlreadyJoined, "already joined this campaign")
}

func errNotParticipating() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "participation not found")
}

func errPledgesClosed() error {
	return pkgerrors.New(pkgerrors.CodeInvalidState, "pledges can only change while recruiting")
}

func errPaymentWindowClosed() error {
	return pkgerrors.New(pkgerrors.CodeInvalidState, "payment can only be confirmed while payment is in progress")
}

func errLeaderWithdraw() error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "the leader cannot withdraw from their own campaign")
}
