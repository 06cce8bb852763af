package gazette

// Marks holds one subject's component and consolidated values. The four
// component fields are nil when the subject does not carry that component;
// present-and-zero is meaningful and distinct from absent, because backlog
// classification keys off zero components.
type Marks struct {
	TermWork     *int    `json:"termWork"`
	Oral         *int    `json:"oral"`
	External     *int    `json:"external"`
	Internal     *int    `json:"internal"`
	Total        int     `json:"total"`
	GradePoint   int     `json:"gradePoint"`
	Grade        string  `json:"grade"`
	Credits      float64 `json:"credits"`
	CreditPoints float64 `json:"creditPoints"`
	Status       string  `json:"status"`
}

// Subject is one subject's full record for a student. KTType is nil for
// cleared subjects; for backlogs it is one of "external", "internal",
// "termWork", "oral" or "overall".
type Subject struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Marks  Marks   `json:"marks"`
	IsKT   bool    `json:"isKT"`
	KTType *string `json:"ktType"`
}

// KTSummary aggregates a student's backlogs. Subjects whose backlog kind
// resolved to "overall" count toward ExternalKT.
type KTSummary struct {
	TotalKT        int      `json:"totalKT"`
	InternalKT     int      `json:"internalKT"`
	ExternalKT     int      `json:"externalKT"`
	TermWorkKT     int      `json:"termWorkKT"`
	OralKT         int      `json:"oralKT"`
	FailedSubjects []string `json:"failedSubjects"`
	HasKT          bool     `json:"hasKT"`
}

// Student is one fully assembled record. Construct-once: records are built
// within the processing of a single block and never mutated afterward.
type Student struct {
	SeatNumber        string    `json:"seatNumber"`
	Name              string    `json:"name"`
	Gender            *string   `json:"gender"`
	ERN               *string   `json:"ern"`
	College           string    `json:"college"`
	Status            string    `json:"status"`
	Subjects          []Subject `json:"subjects"`
	TotalMarks        int       `json:"totalMarks"`
	MaxMarks          int       `json:"maxMarks"`
	Result            string    `json:"result"`
	SGPA              float64   `json:"sgpa"`
	CGPA              *float64  `json:"cgpa"`
	TotalCredits      float64   `json:"totalCredits"`
	TotalCreditPoints float64   `json:"totalCreditPoints"`
	KT                KTSummary `json:"kt"`
}

// Key returns the stable identifier a record is stored under: the
// enrollment reference when present, else the seat number.
func (s *Student) Key() string {
	if s.ERN != nil && *s.ERN != "" {
		return *s.ERN
	}
	return s.SeatNumber
}

// BlockFailure records a block that raised an unexpected error during
// assembly. Line is the block's starting index in the source sequence.
type BlockFailure struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}
