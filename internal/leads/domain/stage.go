// Package domain holds lead workflow invariants shared by repositories and
// services.
package domain

// Stage codes monotonically encode workflow progress. The thresholds below
// carry business meaning and must not drift: they define what counts as an
// active case across every view.
const (
	// StageDroppedSpam marks dropped or spam leads. Excluded from all
	// active-lead views.
	StageDroppedSpam = 91

	// StageNewMax is the highest code still counted as a new lead.
	StageNewMax = 105
	// StageActiveMin is the lowest code counted as an active case.
	StageActiveMin = 110
	// StageApplicationMin is the lowest code meaning an application was
	// submitted.
	StageApplicationMin = 150
	// StageClosed marks a closed case.
	StageClosed = 200
)

// IsDropped reports whether a stage is the dropped/spam sentinel.
func IsDropped(stage *int) bool {
	return stage != nil && *stage == StageDroppedSpam
}

// IsNew reports whether a stage counts as a new lead. A missing stage is
// treated as new: intake rows start without one.
func IsNew(stage *int) bool {
	if stage == nil {
		return true
	}
	return *stage <= StageNewMax && *stage != StageDroppedSpam
}

// IsActive reports whether a stage counts as an active case.
func IsActive(stage *int) bool {
	return stage != nil && *stage >= StageActiveMin
}

// IsInProcess reports whether a case is active but has not yet reached
// application submission.
func IsInProcess(stage *int) bool {
	return stage != nil && *stage >= StageActiveMin && *stage < StageApplicationMin
}

// IsApplicationSubmitted reports whether an application has been submitted.
func IsApplicationSubmitted(stage *int) bool {
	return stage != nil && *stage >= StageApplicationMin
}

// IsClosed reports whether a case is closed.
func IsClosed(stage *int) bool {
	return stage != nil && *stage == StageClosed
}
