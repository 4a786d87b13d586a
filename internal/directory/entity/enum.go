package entity

type CounselorStatus int16

const (
	// CounselorStatusUnknown marks an unset or unrecognized status.
	CounselorStatusUnknown CounselorStatus = 0

	// CounselorStatusActive publishes the counselor in the directory.
	CounselorStatusActive CounselorStatus = 1

	// CounselorStatusInactive hides the counselor, whether they left, were
	// suspended or were removed.
	CounselorStatusInactive CounselorStatus = 2
)

func (cs CounselorStatus) String() string {
	switch cs {
	case CounselorStatusActive:
		return "Active"
	case CounselorStatusInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

func (cs CounselorStatus) Ensure() CounselorStatus {
	switch cs {
	case CounselorStatusActive:
		return CounselorStatusActive
	case CounselorStatusInactive:
		return CounselorStatusInactive
	default:
		return CounselorStatusUnknown
	}
}
