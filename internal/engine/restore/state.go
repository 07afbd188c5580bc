package restore

// State is a phase of a restore.
type State string

// Restore phases, in the order a successful restore passes through them.
const (
	StateInitialized                 State = "Initialized"
	StateWalkingFrameworkGraphs      State = "WalkingFrameworkGraphs"
	StateInstallingFrameworkPackages State = "InstallingFrameworkPackages"
	StateWalkingRuntimeGraphs        State = "WalkingRuntimeGraphs"
	StateInstallingRuntimePackages   State = "InstallingRuntimePackages"
	StateCheckingCompatibility       State = "CheckingCompatibility"
	StateBuildingLockFile            State = "BuildingLockFile"
	StateDone                        State = "Done"
	// StateFailed is terminal. Processing continues after a failure is detected so every
	// diagnostic surfaces in one pass.
	StateFailed State = "Failed"
)

// IsTerminal reports whether no further phase follows s.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}
