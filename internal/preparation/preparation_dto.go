package preparation

type PrepareRequest struct {
	// EmployeeID restricts the run to one employee. Such runs never accrue leave.
	EmployeeID     *string
	Year           int
	Month          int
	IncrementLeave bool
}

type PrepareBody struct {
	IncrementLeave *bool `json:"increment_leave"`
}

type Failure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

type Summary struct {
	Period           string    `json:"period"`
	Processed        int       `json:"processed"`
	LeaveIncremented int       `json:"leave_incremented"`
	Failed           []Failure `json:"failed"`
}
