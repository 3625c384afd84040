package registry

// Result is the outcome of every registry operation. Failures are ordinary
// values; nothing in this package panics on bad data.
type Result uint8

const (
	Success Result = iota
	// IntegrityFailure: integrity code or layout tag mismatch (primary or backup).
	IntegrityFailure
	// NotReady: operation needs a registry in the READY state.
	NotReady
	// BackupInvalid: restore attempted from a backup that does not check.
	BackupInvalid
	UnknownKind
	// InvalidValue: a setter was given a value outside the record's domain.
	InvalidValue
	// StorageFailure: the medium rejected a read or write.
	StorageFailure
	ShutDown
)

var resultNames = [...]string{
	Success:          "success",
	IntegrityFailure: "integrity_failure",
	NotReady:         "not_ready",
	BackupInvalid:    "backup_invalid",
	UnknownKind:      "unknown_kind",
	InvalidValue:     "invalid_value",
	StorageFailure:   "storage_failure",
	ShutDown:         "shut_down",
}

func (r Result) OK() bool { return r == Success }

func (r Result) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return "unknown"
}

// State of the registry life cycle.
//
//	Uninitialized -> Loading -> Checking -> Ready
//	                               |
//	                         CheckingFailed -> Restoring -> Checking -> Ready
//	                                                           |
//	                                            Formatting -> Checking -> Ready | Broken
//
// Ready and Broken move to Shutdown on teardown.
type State uint8

const (
	Uninitialized State = iota
	Loading
	Checking
	CheckingFailed
	Restoring
	Formatting
	Ready
	Broken
	Shutdown
)

var stateNames = [...]string{
	Uninitialized:  "uninitialized",
	Loading:        "loading",
	Checking:       "checking",
	CheckingFailed: "checking_failed",
	Restoring:      "restoring",
	Formatting:     "formatting",
	Ready:          "ready",
	Broken:         "broken",
	Shutdown:       "shutdown",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}
