// Package codes maps the integer call-end and user-input-mode codes reported by
// the toolkit to their enumerator names.
package codes

import (
	"fmt"

	"github.com/pyvoip/configure/internal/errors"
)

// ErrNegativeCode is returned for codes below zero; they never index a table.
var ErrNegativeCode = errors.New("negative code")

// Table is an ordered list of labels indexed by code.
type Table []string

// Label returns the label registered for code. Codes past the end of the
// table are reported as absent rather than as an error.
func (t Table) Label(code int) (string, bool, error) {
	if code < 0 {
		return "", false, errors.WithStackTraceAndPrefix(ErrNegativeCode, "code %d", code)
	}
	if code < len(t) {
		return t[code], true, nil
	}
	return "", false, nil
}

// CallEndReason is indexed by the toolkit's call end reason.
var CallEndReason = Table{
	"EndedByLocalUser",
	"EndedByNoAccept",
	"EndedByAnswerDenied",
	"EndedByRemoteUser",
	"EndedByRefusal",
	"EndedByNoAnswer",
	"EndedByCallerAbort",
	"EndedByTransportFail",
	"EndedByConnectFail",
	"EndedByGatekeeper",
	"EndedByNoUser",
	"EndedByNoBandwidth",
	"EndedByCapabilityExchange",
	"EndedByCallForwarded",
	"EndedBySecurityDenial",
	"EndedByLocalBusy",
	"EndedByLocalCongestion",
	"EndedByRemoteBusy",
	"EndedByRemoteCongestion",
	"EndedByUnreachable",
	"EndedByNoEndPoint",
	"EndedByHostOffline",
	"EndedByTemporaryFailure",
	"EndedByQ931Cause",
	"EndedByDurationLimit",
	"EndedByInvalidConferenceID",
	"EndedByNoDialTone",
	"EndedByNoRingBackTone",
	"EndedByOutOfService",
	"EndedByAcceptingCallWaiting",
	"EndedByGkAdmissionFailed",
}

// SendUserInputMode is indexed by the user input (DTMF) transmission mode.
var SendUserInputMode = Table{
	"SendUserInputAsQ931",
	"SendUserInputAsString",
	"SendUserInputAsTone",
	"SendUserInputAsRFC2833",
	"SendUserInputInBand",
	"SendUserInputAsProtocolDefault",
}

// Tables are the lookup tables by the name used on the command line.
var Tables = map[string]Table{
	"callend":   CallEndReason,
	"userinput": SendUserInputMode,
}

// Lookup finds code in the named table.
func Lookup(table string, code int) (string, bool, error) {
	t, ok := Tables[table]
	if !ok {
		return "", false, fmt.Errorf("unknown code table %q", table)
	}
	return t.Label(code)
}
