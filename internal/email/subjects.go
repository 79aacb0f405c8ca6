package email

const (
	subjectAssignmentOneFmt  = "New case assigned: %s"
	subjectAssignmentManyFmt = "%d new cases assigned to you"
)
